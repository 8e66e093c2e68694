// Package fetch acquires the two source datasets over HTTP: the governance
// country-year CSV and the World Bank indicator API.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWorldBankURL is the v2 API root.
const DefaultWorldBankURL = "https://api.worldbank.org/v2"

const perPage = 10000

// Client fetches both source datasets. BaseURL is the indicator API root.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     zerolog.Logger
}

// NewClient returns a Client with a long-fetch timeout.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Minute},
		Log:     log,
	}
}

// Observation is one indicator value for one country-year. Value is NaN when
// the API reports null.
type Observation struct {
	ISO3    string
	Country string
	Year    int
	Value   float64
}

// wbRow mirrors one element of the API's data array.
type wbRow struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	ISO3  string   `json:"countryiso3code"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Indicator fetches one series for all countries over the most recent
// lookback periods, following API paging.
func (c *Client) Indicator(ctx context.Context, code string, lookback int) ([]Observation, error) {
	var out []Observation

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country/all/indicator/%s?format=json&per_page=%d&mrv=%d&page=%d",
			c.BaseURL, code, perPage, lookback, page)

		rows, pages, err := c.indicatorPage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("indicator %s page %d: %w", code, page, err)
		}

		for _, r := range rows {
			year, err := strconv.Atoi(r.Date)
			if err != nil {
				// non-annual observation (e.g. quarters); not part of the panel
				continue
			}

			val := math.NaN()
			if r.Value != nil {
				val = *r.Value
			}

			out = append(out, Observation{
				ISO3:    r.ISO3,
				Country: r.Country.Value,
				Year:    year,
				Value:   val,
			})
		}

		if page >= pages {
			break
		}
	}

	c.Log.Info().Str("indicator", code).Int("observations", len(out)).Msg("fetched series")

	return out, nil
}

func (c *Client) indicatorPage(ctx context.Context, url string) ([]wbRow, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("status %s", resp.Status)
	}

	// responses are a two-element array: paging metadata, then observations
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, 0, err
	}

	if len(raw) < 2 {
		return nil, 0, fmt.Errorf("malformed response: %d elements", len(raw))
	}

	var meta struct {
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
	if err := json.Unmarshal(raw[0], &meta); err != nil {
		return nil, 0, fmt.Errorf("paging metadata: %w", err)
	}

	var rows []wbRow
	if err := json.Unmarshal(raw[1], &rows); err != nil {
		return nil, 0, fmt.Errorf("observations: %w", err)
	}

	return rows, meta.Pages, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}

	return http.DefaultClient
}
