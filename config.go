// Package agepanel runs the aging/research-output pipeline: acquire the
// governance and development panels, merge them, summarize by region and by
// aging intensity, fit marginal-effect regressions, and render the charts.
package agepanel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkarlin/agepanel/fetch"
	"github.com/mkarlin/agepanel/store"
)

// envPrefix prefixes environment overrides, e.g. AGEPANEL_STORE_PASSWORD.
const envPrefix = "AGEPANEL_"

// Indicators are the World Bank series codes fetched into the panel.
type Indicators struct {
	DependencyRatio string `yaml:"dependency_ratio"`
	RDExpenditure   string `yaml:"rd_expenditure"`
	Researchers     string `yaml:"researchers"`
	Publications    string `yaml:"publications"`
	Population      string `yaml:"population"`
	GDP             string `yaml:"gdp"`
}

// Artifacts are the output file names, written under OutDir.
type Artifacts struct {
	RegionTrends    string `yaml:"region_trends"`
	Expenditure     string `yaml:"expenditure"`
	PublicationsFit string `yaml:"publications_fit"`
	ResearchersFit  string `yaml:"researchers_fit"`
	PanelCSV        string `yaml:"panel_csv"`
	SummaryCSV      string `yaml:"summary_csv"`
}

type Config struct {
	VDemURL      string       `yaml:"vdem_url"`
	WorldBankURL string       `yaml:"worldbank_url"`
	Lookback     int          `yaml:"lookback"`
	OutDir       string       `yaml:"out_dir"`
	LogLevel     string       `yaml:"log_level"`
	Indicators   Indicators   `yaml:"indicators"`
	Artifacts    Artifacts    `yaml:"artifacts"`
	Store        store.Config `yaml:"store"`
}

// DefaultConfig is the full default configuration; a config file overrides it
// field by field.
func DefaultConfig() Config {
	return Config{
		VDemURL:      fetch.DefaultVDemURL,
		WorldBankURL: fetch.DefaultWorldBankURL,
		Lookback:     50,
		OutDir:       "out",
		LogLevel:     "info",
		Indicators: Indicators{
			DependencyRatio: "SP.POP.DPND.OL",
			RDExpenditure:   "GB.XPD.RSDV.GD.ZS",
			Researchers:     "SP.POP.SCIE.RD.P6",
			Publications:    "IP.JRN.ARTC.SC",
			Population:      "SP.POP.TOTL",
			GDP:             "NY.GDP.MKTP.CD",
		},
		Artifacts: Artifacts{
			RegionTrends:    "region_dependency_trends.png",
			Expenditure:     "expenditure_by_aging.html",
			PublicationsFit: "publications_dependency_effects.html",
			ResearchersFit:  "researchers_dependency_effects.html",
			PanelCSV:        "panel.csv",
			SummaryCSV:      "region_year_medians.csv",
		},
	}
}

// LoadConfig reads the optional YAML file over the defaults and applies
// environment overrides for store credentials.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.Store.Driver = envString("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.Host = envString("STORE_HOST", cfg.Store.Host)
	cfg.Store.User = envString("STORE_USER", cfg.Store.User)
	cfg.Store.Password = envString("STORE_PASSWORD", cfg.Store.Password)
	cfg.Store.Database = envString("STORE_DATABASE", cfg.Store.Database)
	cfg.Store.DSN = envString("STORE_DSN", cfg.Store.DSN)

	return cfg, nil
}

func envString(key, defaultVal string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}

	return defaultVal
}
