// Package arma models stationary ARMA(p,q) noise processes and provides
// fast structured solvers for their covariance matrices.
//
// A model is the stochastic difference equation
//
//	phi(B) x[t] = theta(B) w[t]
//
// where B is the backshift operator, w is unit-variance white noise, and
// phi and theta are polynomials of degree p and q with phi[0] = 1 and
// theta[0] > 0. Every model carries three equivalent representations that
// are derived once at construction:
//
//   - the polynomial coefficients theta and phi,
//   - the poles (roots of phi), moving-average zeros (roots of theta) and
//     the process variance,
//   - the autocovariance as a sum of damped exponentials gamma(k) =
//     Re sum_i ampl[i]*base[i]^k, valid beyond the first few exceptional
//     lags, together with those exceptional initial values.
//
// Stability and invertibility are enforced at construction: all poles and
// zeros must lie strictly outside the unit circle, equivalently all
// exponential bases strictly inside.
//
// # Covariance solver
//
// Solver factorizes the N-by-N covariance matrix R of N consecutive
// samples without materializing it. Writing A for the banded Toeplitz
// matrix of the AR coefficients, A*R*A^T is symmetric banded with
// bandwidth max(p,q), and its band Cholesky factor B yields the exact
// dense Cholesky factor L = A^{-1}*B of R. Whitening, unwhitening,
// multiplication by R and solving against R all run in O(N*max(p,q))
// time and memory. The factorization nests, so one Solver serves every
// leading sub-length J <= N.
//
// # Toeplitz whitening
//
// ToeplitzWhiten applies the model as a pure filter pair with zero
// initial conditions. Unlike Solver.Whiten it is only approximately
// decorrelating near the start of the series, but it commutes exactly
// with shifts, which matters when comparing windows of a longer stream.
//
// # Numerical behaviour
//
// Construction and solving rely on dense and banded linear algebra with
// no regularization. Models with near-coincident poles or poles very
// close to the unit circle produce ill-conditioned systems; operations
// then lose accuracy smoothly rather than failing outright.
package arma
