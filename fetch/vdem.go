package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// DefaultVDemURL points at the country-year core CSV.
const DefaultVDemURL = "https://v-dem.net/media/datasets/V-Dem-CY-Core.csv"

// CountryYear is one governance-panel row: the panel's own country coding plus
// the six-category region code (0 when absent).
type CountryYear struct {
	Country string
	TextID  string
	Year    int
	Region  int
}

// vdemColumns are the columns kept from the (much wider) source CSV.
var vdemColumns = []string{"country_name", "country_text_id", "year", "e_regionpol_6C"}

// VDem downloads the governance CSV and keeps rows from minYear on. The file
// is streamed; only the needed columns are retained.
func (c *Client) VDem(ctx context.Context, url string, minYear int) ([]CountryYear, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("governance panel: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("governance panel: status %s", resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("governance panel header: %w", err)
	}

	cols := make([]int, len(vdemColumns))
	for ind, name := range vdemColumns {
		cols[ind] = -1
		for h, col := range header {
			if col == name {
				cols[ind] = h
				break
			}
		}

		if cols[ind] < 0 {
			return nil, fmt.Errorf("governance panel: column %s not found", name)
		}
	}

	var out []CountryYear
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("governance panel row: %w", err)
		}

		year, err := strconv.Atoi(rec[cols[2]])
		if err != nil || year < minYear {
			continue
		}

		// region code may be blank for historical entities; keep the row
		region, _ := strconv.Atoi(rec[cols[3]])

		out = append(out, CountryYear{
			Country: rec[cols[0]],
			TextID:  rec[cols[1]],
			Year:    year,
			Region:  region,
		})
	}

	c.Log.Info().Int("rows", len(out)).Int("min_year", minYear).Msg("fetched governance panel")

	return out, nil
}
