package fetch

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func wbPage(page, pages int, rows string) string {
	return fmt.Sprintf(`[{"page":%d,"pages":%d,"per_page":"10000","total":4},[%s]]`, page, pages, rows)
}

func TestIndicatorPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/country/all/indicator/SP.POP.TOTL", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "50", r.URL.Query().Get("mrv"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, wbPage(1, 2,
				`{"country":{"id":"SE","value":"Sweden"},"countryiso3code":"SWE","date":"2001","value":8900000},
				 {"country":{"id":"SE","value":"Sweden"},"countryiso3code":"SWE","date":"2002","value":null}`))
		case "2":
			fmt.Fprint(w, wbPage(2, 2,
				`{"country":{"id":"KE","value":"Kenya"},"countryiso3code":"KEN","date":"2001","value":31000000},
				 {"country":{"id":"KE","value":"Kenya"},"countryiso3code":"KEN","date":"2001Q3","value":1}`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	obs, err := c.Indicator(context.Background(), "SP.POP.TOTL", 50)
	assert.Nil(t, err)

	// the quarterly row is dropped, the null value becomes NaN
	assert.Equal(t, 3, len(obs))
	assert.Equal(t, Observation{ISO3: "SWE", Country: "Sweden", Year: 2001, Value: 8900000}, obs[0])
	assert.True(t, math.IsNaN(obs[1].Value))
	assert.Equal(t, "KEN", obs[2].ISO3)
}

func TestIndicatorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"message":[{"id":"120","value":"Invalid indicator"}]}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	_, err := c.Indicator(context.Background(), "BOGUS", 50)
	assert.NotNil(t, err)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	c = NewClient(bad.URL, zerolog.Nop())
	_, err = c.Indicator(context.Background(), "SP.POP.TOTL", 50)
	assert.NotNil(t, err)
}

const vdemCSV = `country_name,country_text_id,year,v2x_polyarchy,e_regionpol_6C
Sweden,SWE,2000,0.91,5
Sweden,SWE,1950,0.85,5
Kenya,KEN,2000,0.45,4
Somaliland,SML,2000,0.30,
`

func TestVDem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, vdemCSV)
	}))
	defer srv.Close()

	c := NewClient("", zerolog.Nop())

	rows, err := c.VDem(context.Background(), srv.URL, 1976)
	assert.Nil(t, err)

	// 1950 is older than the lookback floor
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, CountryYear{Country: "Sweden", TextID: "SWE", Year: 2000, Region: 5}, rows[0])

	// blank region code is kept as 0
	assert.Equal(t, CountryYear{Country: "Somaliland", TextID: "SML", Year: 2000, Region: 0}, rows[2])
}

func TestVDemMissingColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "country_name,year\nSweden,2000\n")
	}))
	defer srv.Close()

	c := NewClient("", zerolog.Nop())

	_, err := c.VDem(context.Background(), srv.URL, 1976)
	assert.NotNil(t, err)
}
