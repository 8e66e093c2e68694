// Package regress fits ordinary least squares with a categorical interaction
// and produces marginal-effect predictions with confidence bounds.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is a fitted OLS of y on x, a categorical level, and their
// interaction. The first observed level is the baseline; coefficients are
// ordered intercept, x, level dummies, x:level interactions.
type Model struct {
	Response string
	Levels   []string
	Coef     []float64

	sigma2 float64
	dof    int
	xtxInv *mat.SymDense

	xMin, xMax float64
}

// Fit estimates y ~ x * level by OLS. Rows with NaN in x or y, or whose level
// is not among levels, are excluded. levels fixes the dummy ordering; levels
// absent from the data are dropped.
func Fit(response string, x, y []float64, level []string, levels []string) (*Model, error) {
	if len(x) != len(y) || len(x) != len(level) {
		return nil, fmt.Errorf("fit %s: input lengths differ", response)
	}

	// complete cases with a known level only
	var (
		xs, ys []float64
		ls     []string
	)
	seen := make(map[string]bool)
	for ind := range x {
		if math.IsNaN(x[ind]) || math.IsNaN(y[ind]) || levelIndex(level[ind], levels) < 0 {
			continue
		}

		xs = append(xs, x[ind])
		ys = append(ys, y[ind])
		ls = append(ls, level[ind])
		seen[level[ind]] = true
	}

	var obs []string
	for _, l := range levels {
		if seen[l] {
			obs = append(obs, l)
		}
	}

	n, p := len(xs), 2*len(obs)
	if len(obs) == 0 {
		return nil, fmt.Errorf("fit %s: no observed levels", response)
	}
	if n <= p {
		return nil, fmt.Errorf("fit %s: %d observations for %d parameters", response, n, p)
	}

	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		design.Set(i, 1, xs[i])
		if j := levelIndex(ls[i], obs); j > 0 {
			design.Set(i, 1+j, 1)
			design.Set(i, len(obs)+j, xs[i])
		}
	}

	yv := mat.NewDense(n, 1, ys)

	var qr mat.QR
	qr.Factorize(design)

	beta := mat.NewDense(p, 1, nil)
	if err := qr.SolveTo(beta, false, yv); err != nil {
		return nil, fmt.Errorf("fit %s: singular design: %w", response, err)
	}

	// residual variance
	var fitted mat.Dense
	fitted.Mul(design, beta)

	var rss float64
	for i := 0; i < n; i++ {
		r := ys[i] - fitted.At(i, 0)
		rss += r * r
	}

	dof := n - p
	sigma2 := rss / float64(dof)

	// coefficient covariance = sigma2 * (X'X)^-1
	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sym.SetSym(i, j, xtx.At(i, j))
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return nil, fmt.Errorf("fit %s: design matrix not full rank", response)
	}

	inv := mat.NewSymDense(p, nil)
	if err := chol.InverseTo(inv); err != nil {
		return nil, fmt.Errorf("fit %s: covariance inverse: %w", response, err)
	}

	coef := make([]float64, p)
	for i := 0; i < p; i++ {
		coef[i] = beta.At(i, 0)
	}

	xMin, xMax := xs[0], xs[0]
	for _, xv := range xs {
		xMin = math.Min(xMin, xv)
		xMax = math.Max(xMax, xv)
	}

	return &Model{
		Response: response,
		Levels:   obs,
		Coef:     coef,
		sigma2:   sigma2,
		dof:      dof,
		xtxInv:   inv,
		xMin:     xMin,
		xMax:     xMax,
	}, nil
}

// Sigma2 is the residual variance estimate.
func (m *Model) Sigma2() float64 { return m.sigma2 }

// DoF is the residual degrees of freedom.
func (m *Model) DoF() int { return m.dof }

// Range is the observed range of the continuous predictor.
func (m *Model) Range() (lo, hi float64) { return m.xMin, m.xMax }

func levelIndex(l string, levels []string) int {
	for ind, lv := range levels {
		if lv == l {
			return ind
		}
	}

	return -1
}
