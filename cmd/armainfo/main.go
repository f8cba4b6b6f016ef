// Command armainfo prints the properties of an ARMA noise model.
//
// Usage:
//
//	armainfo [flags]
//
// The model comes either from polynomial coefficients given on the command
// line or from a JSON file in the format written by Model.MarshalJSON.
//
// Examples:
//
//	armainfo -theta 1,0.4 -phi 1,-0.5
//	armainfo -phi 1,-1.2,0.4 -lags 16
//	armainfo -model model.json -psd 9
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-arma/arma"
	"github.com/cwbudde/algo-vecmath"
)

func main() {
	theta := flag.String("theta", "1", "moving-average coefficients theta0,theta1,...")
	phi := flag.String("phi", "1", "autoregressive coefficients phi0,phi1,...")
	modelPath := flag.String("model", "", "read the model from a JSON file instead of -theta/-phi")
	lags := flag.Int("lags", 8, "number of covariance lags to print, starting at lag 0")
	psd := flag.Int("psd", 0, "number of spectral density samples from DC to Nyquist (0 disables)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: armainfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the properties of an ARMA noise model: orders, variance, roots,\n")
		fmt.Fprintf(os.Stderr, "the covariance sequence and optionally the power spectral density.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  armainfo -theta 1,0.4 -phi 1,-0.5\n")
		fmt.Fprintf(os.Stderr, "  armainfo -phi 1,-1.2,0.4 -lags 16\n")
		fmt.Fprintf(os.Stderr, "  armainfo -model model.json -psd 9\n")
	}
	flag.Parse()

	if *lags < 1 {
		fmt.Fprintf(os.Stderr, "error: -lags must be at least 1\n")
		os.Exit(1)
	}
	if *psd < 0 {
		fmt.Fprintf(os.Stderr, "error: -psd must not be negative\n")
		os.Exit(1)
	}

	m, err := loadModel(*modelPath, *theta, *phi)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := printModel(os.Stdout, m, *lags, *psd); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func loadModel(path, thetaArg, phiArg string) (*arma.Model, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return arma.UnmarshalModelJSON(data)
	}

	thetacoef, err := parseCoeffs(thetaArg)
	if err != nil {
		return nil, fmt.Errorf("invalid -theta: %w", err)
	}
	phicoef, err := parseCoeffs(phiArg)
	if err != nil {
		return nil, fmt.Errorf("invalid -phi: %w", err)
	}

	return arma.NewModel(thetacoef, phicoef)
}

// parseCoeffs parses a comma separated coefficient list. Empty entries are
// skipped so trailing commas do no harm.
func parseCoeffs(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("no coefficients")
	}
	return out, nil
}

func printModel(w io.Writer, m *arma.Model, lags, psdSamples int) error {
	if err := printProperties(w, m); err != nil {
		return err
	}
	if err := printRoots(w, m); err != nil {
		return err
	}
	if err := printExponentials(w, m); err != nil {
		return err
	}
	if err := printCovariance(w, m, lags); err != nil {
		return err
	}
	if psdSamples > 0 {
		return printPSD(w, m, psdSamples)
	}
	return nil
}

func printProperties(w io.Writer, m *arma.Model) error {
	p, q := m.Orders()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Orders (p, q)\t(%d, %d)\n", p, q); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Variance\t%.6g\n", m.Variance()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Theta\t%s\n", formatCoeffs(m.Theta())); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Phi\t%s\n", formatCoeffs(m.Phi())); err != nil {
		return err
	}
	return tw.Flush()
}

func printRoots(w io.Writer, m *arma.Model) error {
	var kinds []string
	var vals []complex128
	for _, z := range m.Zeros() {
		kinds = append(kinds, "zero")
		vals = append(vals, z)
	}
	for _, pl := range m.Poles() {
		kinds = append(kinds, "pole")
		vals = append(vals, pl)
	}
	if len(vals) == 0 {
		return nil
	}

	re, im := splitComplex(vals)
	mod := make([]float64, len(vals))
	vecmath.Magnitude(mod, re, im)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nKind\tRoot\tModulus\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t----\t-------\n"); err != nil {
		return err
	}
	for i, kind := range kinds {
		if _, err := fmt.Fprintf(tw, "%s\t%.6f%+.6fi\t%.6f\n", kind, re[i], im[i], mod[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printExponentials(w io.Writer, m *arma.Model) error {
	bases := m.ExpBases()
	ampls := m.ExpAmplitudes()
	if len(bases) == 0 {
		return nil
	}

	re, im := splitComplex(bases)
	mod := make([]float64, len(bases))
	vecmath.Magnitude(mod, re, im)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nBase\tModulus\tAmplitude\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t-------\t---------\n"); err != nil {
		return err
	}
	for i := range bases {
		if _, err := fmt.Fprintf(tw, "%.6f%+.6fi\t%.6f\t%.6f%+.6fi\n",
			re[i], im[i], mod[i], real(ampls[i]), imag(ampls[i])); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printCovariance(w io.Writer, m *arma.Model, lags int) error {
	gamma, err := m.Covariance(lags)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nLag\tCovariance\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---\t----------\n"); err != nil {
		return err
	}
	for k, g := range gamma {
		if _, err := fmt.Fprintf(tw, "%d\t%.6g\n", k, g); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printPSD(w io.Writer, m *arma.Model, n int) error {
	dens := m.PSDSampled(n)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nFrequency\tDensity\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---------\t-------\n"); err != nil {
		return err
	}
	for i, d := range dens {
		f := 0.0
		if n > 1 {
			f = 0.5 * float64(i) / float64(n-1)
		}
		if _, err := fmt.Fprintf(tw, "%.6f\t%.6g\n", f, d); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatCoeffs(coeffs []float64) string {
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = strconv.FormatFloat(c, 'g', 6, 64)
	}
	return strings.Join(parts, " ")
}

func splitComplex(vals []complex128) (re, im []float64) {
	re = make([]float64, len(vals))
	im = make([]float64, len(vals))
	for i, v := range vals {
		re[i] = real(v)
		im[i] = imag(v)
	}
	return re, im
}
