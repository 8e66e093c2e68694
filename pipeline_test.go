package agepanel

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type testCountry struct {
	iso    string
	name   string
	region int
	dep    float64
	pop    float64
}

var testCountries = []testCountry{
	{iso: "SWE", name: "Sweden", region: 5, dep: 28, pop: 8.9e6},
	{iso: "NOR", name: "Norway", region: 5, dep: 24, pop: 4.5e6},
	{iso: "DNK", name: "Denmark", region: 5, dep: 26, pop: 5.3e6},
	{iso: "KEN", name: "Kenya", region: 4, dep: 5, pop: 3.1e7},
	{iso: "TZA", name: "Tanzania", region: 4, dep: 6, pop: 3.4e7},
}

var testYears = []int{1997, 1998, 1999}

func testValue(code string, c testCountry, year int) float64 {
	dep := c.dep + 0.3*float64(year-testYears[0])

	switch code {
	case "SP.POP.DPND.OL":
		return dep
	case "GB.XPD.RSDV.GD.ZS":
		if c.region == 5 {
			return 3.0 + 0.1*float64(year-testYears[0])
		}
		return 0.5 + 0.05*float64(year-testYears[0])
	case "SP.POP.SCIE.RD.P6":
		return 100 + 5*dep + 10*float64(c.region)
	case "IP.JRN.ARTC.SC":
		return c.pop / 1e6 * (10 + 2*dep)
	case "SP.POP.TOTL":
		return c.pop
	case "NY.GDP.MKTP.CD":
		return c.pop * 1e4
	default:
		return 0
	}
}

func newSourceServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/vdem.csv" {
			fmt.Fprintln(w, "country_name,country_text_id,year,e_regionpol_6C")
			for _, c := range testCountries {
				for _, year := range testYears {
					fmt.Fprintf(w, "%s,%s,%d,%d\n", c.name, c.iso, year, c.region)
				}
			}
			return
		}

		parts := strings.Split(r.URL.Path, "/")
		code := parts[len(parts)-1]

		var rows []string
		for _, c := range testCountries {
			for _, year := range testYears {
				rows = append(rows, fmt.Sprintf(
					`{"country":{"id":"%s","value":"%s"},"countryiso3code":"%s","date":"%d","value":%g}`,
					c.iso[:2], c.name, c.iso, year, testValue(code, c, year)))
			}
		}

		fmt.Fprintf(w, `[{"page":1,"pages":1,"per_page":"10000","total":%d},[%s]]`,
			len(rows), strings.Join(rows, ","))
	}))
}

func TestPipelineEndToEnd(t *testing.T) {
	srv := newSourceServer(t)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.VDemURL = srv.URL + "/vdem.csv"
	cfg.WorldBankURL = srv.URL
	cfg.OutDir = t.TempDir()

	p := New(cfg, zerolog.Nop())
	assert.Nil(t, p.Run(context.Background()))

	// two regions x three years of summaries
	raw, err := os.ReadFile(filepath.Join(cfg.OutDir, cfg.Artifacts.SummaryCSV))
	assert.Nil(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, 1+2*3, len(lines))

	// merged panel has one row per country-year
	raw, err = os.ReadFile(filepath.Join(cfg.OutDir, cfg.Artifacts.PanelCSV))
	assert.Nil(t, err)
	assert.Equal(t, 1+len(testCountries)*len(testYears),
		len(strings.Split(strings.TrimSpace(string(raw)), "\n")))

	// four non-empty chart artifacts
	for _, name := range []string{
		cfg.Artifacts.RegionTrends,
		cfg.Artifacts.Expenditure,
		cfg.Artifacts.PublicationsFit,
		cfg.Artifacts.ResearchersFit,
	} {
		info, err := os.Stat(filepath.Join(cfg.OutDir, name))
		assert.Nil(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestPipelineFetchFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.VDemURL = srv.URL + "/vdem.csv"
	cfg.WorldBankURL = srv.URL
	cfg.OutDir = t.TempDir()

	err := New(cfg, zerolog.Nop()).Run(context.Background())
	assert.NotNil(t, err)
}
