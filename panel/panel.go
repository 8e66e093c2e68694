// Package panel builds and summarizes the merged country-year panel of
// governance regions and development indicators.
package panel

import (
	"math"
)

// Regions is the six-category politico-geographic coding carried by the
// governance panel, in code order (1..6).
var Regions = []string{
	"Eastern Europe and Central Asia",
	"Latin America and the Caribbean",
	"The Middle East and North Africa",
	"Sub-Saharan Africa",
	"Western Europe and North America",
	"Asia and Pacific",
}

// RegionLabel maps a region code to its label. Codes outside 1..6 map to "".
func RegionLabel(code int) string {
	if code < 1 || code > len(Regions) {
		return ""
	}

	return Regions[code-1]
}

// DemRow is one row of the governance panel before the join.
type DemRow struct {
	Country string
	TextID  string
	Year    int
	Region  string
}

// Row is one merged country-year record. Missing values are NaN.
type Row struct {
	Country        string
	ISO3           string
	Region         string
	Year           int
	DepRatio       float64
	RDExpend       float64
	Researchers    float64
	Publications   float64
	Population     float64
	GDP            float64
	PubsPerMillion float64
}

// Key identifies one country-year observation.
type Key struct {
	ISO3 string
	Year int
}

// Values holds one indicator keyed by (ISO3, year).
type Values map[Key]float64

func (v Values) at(iso3 string, year int) float64 {
	if iso3 == "" || v == nil {
		return math.NaN()
	}

	if x, ok := v[Key{ISO3: iso3, Year: year}]; ok {
		return x
	}

	return math.NaN()
}

// Indicators are the six development series to merge onto the panel.
type Indicators struct {
	DepRatio     Values
	RDExpend     Values
	Researchers  Values
	Publications Values
	Population   Values
	GDP          Values
}

// Build left-merges the indicator values onto every governance row. Rows whose
// identifier has no ISO3 mapping keep an empty code and NaN indicator values;
// nothing is dropped here. The indicator source's own country naming is
// discarded, the governance name is authoritative.
func Build(dem []DemRow, ind Indicators) []Row {
	rows := make([]Row, 0, len(dem))
	for _, d := range dem {
		iso3 := ISO3(d.TextID)

		r := Row{
			Country:      d.Country,
			ISO3:         iso3,
			Region:       d.Region,
			Year:         d.Year,
			DepRatio:     ind.DepRatio.at(iso3, d.Year),
			RDExpend:     ind.RDExpend.at(iso3, d.Year),
			Researchers:  ind.Researchers.at(iso3, d.Year),
			Publications: ind.Publications.at(iso3, d.Year),
			Population:   ind.Population.at(iso3, d.Year),
			GDP:          ind.GDP.at(iso3, d.Year),
		}
		r.PubsPerMillion = PerMillion(r.Publications, r.Population)

		rows = append(rows, r)
	}

	return rows
}

// PerMillion normalizes a count by population, per one million people.
func PerMillion(count, population float64) float64 {
	if population == 0 {
		return math.NaN()
	}

	return count / population * 1e6
}
