package panel

import (
	"fmt"
	"math"
	"sort"

	"github.com/mkarlin/agepanel/breaks"
)

// deltaSpan is the lag, in years, of the expenditure delta.
const deltaSpan = 3

// CategoryYear is the per-(aging category, year) summary. Delta is NaN where
// no observation exists exactly deltaSpan years prior in the same category.
type CategoryYear struct {
	Category string
	Index    int
	Year     int
	DepRatio float64
	RDExpend float64
	Delta    float64
	Label    string
}

// BaseYear is the first label year: the smallest year >= WindowStart congruent
// to 0 modulo deltaSpan relative to WindowStart's grid.
func BaseYear() int {
	return WindowStart + ((deltaSpan - WindowStart%deltaSpan) % deltaSpan)
}

// CategoryYearSummaries classifies window rows by dependency ratio, computes
// per-(category, year) medians of dependency and expenditure, then attaches
// the lagged expenditure delta and its periodic display label. Categories come
// from the classifier fitted once on the full filtered panel. Output is
// ordered by category, then year.
func CategoryYearSummaries(rows []Row, cls *breaks.Classifier) []CategoryYear {
	type gKey struct {
		cat  int
		year int
	}

	groups := make(map[gKey][]Row)
	for _, r := range rows {
		if !r.InWindow() || math.IsNaN(r.DepRatio) {
			continue
		}

		k := gKey{cat: cls.Assign(r.DepRatio), year: r.Year}
		groups[k] = append(groups[k], r)
	}

	var out []CategoryYear
	for k, g := range groups {
		out = append(out, CategoryYear{
			Category: cls.Label(g[0].DepRatio),
			Index:    k.cat,
			Year:     k.year,
			DepRatio: median(field(g, func(r Row) float64 { return r.DepRatio })),
			RDExpend: median(field(g, func(r Row) float64 { return r.RDExpend })),
			Delta:    math.NaN(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}

		return out[i].Year < out[j].Year
	})

	attachDeltas(out)

	return out
}

// attachDeltas fills Delta and Label in place. The slice must be ordered by
// category, then year.
func attachDeltas(cats []CategoryYear) {
	expend := make(map[[2]int]float64, len(cats))
	for _, c := range cats {
		expend[[2]int{c.Index, c.Year}] = c.RDExpend
	}

	base := BaseYear()
	for ind := range cats {
		c := &cats[ind]

		prior, ok := expend[[2]int{c.Index, c.Year - deltaSpan}]
		if !ok {
			continue
		}

		c.Delta = c.RDExpend - prior
		if c.Year >= base && (c.Year-base)%deltaSpan == 0 && !math.IsNaN(c.Delta) {
			c.Label = fmt.Sprintf("Δ %+.2f", c.Delta)
		}
	}
}
