package panel

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPerMillionInvertible(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("normalization inverts given the population", prop.ForAll(
		func(pubs, pop float64) bool {
			norm := PerMillion(pubs, pop)
			back := norm * pop / 1e6

			return math.Abs(back-pubs) <= 1e-9*math.Max(1, math.Abs(pubs))
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(1e4, 2e9),
	))

	properties.TestingRun(t)
}
