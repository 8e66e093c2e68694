package panel

import (
	"math"
	"sort"
)

// Summary window, inclusive on both ends.
const (
	WindowStart = 1996
	WindowEnd   = 2019
)

// RegionYear is the per-(region, year) median of the six indicators.
type RegionYear struct {
	Region       string
	Year         int
	DepRatio     float64
	RDExpend     float64
	Researchers  float64
	Publications float64
	Population   float64
	GDP          float64
}

// InWindow reports whether the row falls in the summary window.
func (r Row) InWindow() bool {
	return r.Year >= WindowStart && r.Year <= WindowEnd
}

// WindowRows returns the rows inside the summary window.
func WindowRows(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if r.InWindow() {
			out = append(out, r)
		}
	}

	return out
}

// RegionYearMedians groups window rows by (region, year) and takes the median
// of each indicator, NaN excluded. Rows whose region is not one of the six
// fixed labels are skipped. Output is ordered by region code, then year.
func RegionYearMedians(rows []Row) []RegionYear {
	type gKey struct {
		region string
		year   int
	}

	groups := make(map[gKey][]Row)
	for _, r := range rows {
		if !r.InWindow() || !has(r.Region, Regions) {
			continue
		}

		k := gKey{region: r.Region, year: r.Year}
		groups[k] = append(groups[k], r)
	}

	var out []RegionYear
	for k, g := range groups {
		s := RegionYear{Region: k.region, Year: k.year}
		s.DepRatio = median(field(g, func(r Row) float64 { return r.DepRatio }))
		s.RDExpend = median(field(g, func(r Row) float64 { return r.RDExpend }))
		s.Researchers = median(field(g, func(r Row) float64 { return r.Researchers }))
		s.Publications = median(field(g, func(r Row) float64 { return r.Publications }))
		s.Population = median(field(g, func(r Row) float64 { return r.Population }))
		s.GDP = median(field(g, func(r Row) float64 { return r.GDP }))

		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := position(out[i].Region, Regions), position(out[j].Region, Regions)
		if ri != rj {
			return ri < rj
		}

		return out[i].Year < out[j].Year
	})

	return out
}

func field(rows []Row, get func(Row) float64) []float64 {
	x := make([]float64, len(rows))
	for ind, r := range rows {
		x[ind] = get(r)
	}

	return x
}

// median is the sample median with NaN excluded. An all-NaN (or empty) sample
// yields NaN, not zero.
func median(x []float64) float64 {
	v := make([]float64, 0, len(x))
	for _, xv := range x {
		if !math.IsNaN(xv) {
			v = append(v, xv)
		}
	}

	if len(v) == 0 {
		return math.NaN()
	}

	sort.Float64s(v)
	if n := len(v); n%2 == 1 {
		return v[n/2]
	}

	return 0.5 * (v[len(v)/2-1] + v[len(v)/2])
}

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}
