package regress

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GridPoints is the size of the prediction grid over the predictor's range.
const GridPoints = 100

// confLevel is the two-sided confidence level of the prediction bounds.
const confLevel = 0.95

// Prediction is one marginal-effect grid point for one level.
type Prediction struct {
	X     float64
	Level string
	Fit   float64
	Lower float64
	Upper float64
}

// MarginalEffects predicts the response over an evenly spaced grid of the
// predictor's observed range, once per level, with confidence bounds from the
// coefficient covariance (Student-t on the residual degrees of freedom).
func (m *Model) MarginalEffects() []Prediction {
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.dof)}
	tCrit := tDist.Quantile(0.5 + confLevel/2)

	p := len(m.Coef)
	nLevels := len(m.Levels)

	var out []Prediction
	for j, lvl := range m.Levels {
		for g := 0; g < GridPoints; g++ {
			xv := m.xMin + (m.xMax-m.xMin)*float64(g)/float64(GridPoints-1)

			x0 := make([]float64, p)
			x0[0] = 1
			x0[1] = xv
			if j > 0 {
				x0[1+j] = 1
				x0[nLevels+j] = xv
			}

			v := mat.NewVecDense(p, x0)
			fit := mat.Dot(v, mat.NewVecDense(p, m.Coef))
			se := math.Sqrt(m.sigma2 * mat.Inner(v, m.xtxInv, v))

			out = append(out, Prediction{
				X:     xv,
				Level: lvl,
				Fit:   fit,
				Lower: fit - tCrit*se,
				Upper: fit + tCrit*se,
			})
		}
	}

	return out
}
