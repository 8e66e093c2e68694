package agepanel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkarlin/agepanel/breaks"
	"github.com/mkarlin/agepanel/charts"
	"github.com/mkarlin/agepanel/fetch"
	"github.com/mkarlin/agepanel/panel"
	"github.com/mkarlin/agepanel/regress"
	"github.com/mkarlin/agepanel/store"
)

// agingClasses is the number of aging-intensity categories.
const agingClasses = 3

// Pipeline runs the full acquisition-to-rendering sequence once.
type Pipeline struct {
	Cfg Config
	Log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{Cfg: cfg, Log: log}
}

// Run executes the stages strictly in order. Any stage error aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	cfg := p.Cfg

	rows, err := p.acquire(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	if cfg.Store.Enabled() {
		if err := p.persist(ctx, rows); err != nil {
			return err
		}
	}

	if err := p.writePanelCSV(rows); err != nil {
		return err
	}

	summaries := panel.RegionYearMedians(rows)
	p.Log.Info().Int("rows", len(summaries)).Msg("region-year medians")

	if err := p.writeSummaryCSV(summaries); err != nil {
		return err
	}

	if err := charts.RegionTrends(summaries, p.artifact(cfg.Artifacts.RegionTrends)); err != nil {
		return err
	}

	window := panel.WindowRows(rows)

	cls, err := breaks.Jenks(depRatios(window), agingClasses)
	if err != nil {
		return fmt.Errorf("aging classification: %w", err)
	}
	p.Log.Info().Floats64("breaks", cls.Breaks).Msg("aging classes")

	cats := panel.CategoryYearSummaries(rows, cls)
	if err := charts.ExpenditureByAging(cats, p.artifact(cfg.Artifacts.Expenditure)); err != nil {
		return err
	}

	if err := p.marginalEffects(window, "publications per million", pubsPerMillion,
		"Predicted publications per million vs aging", cfg.Artifacts.PublicationsFit); err != nil {
		return err
	}

	if err := p.marginalEffects(window, "researchers per million", researchers,
		"Predicted researchers per million vs aging", cfg.Artifacts.ResearchersFit); err != nil {
		return err
	}

	p.Log.Info().Dur("elapsed", time.Since(start)).Msg("pipeline complete")

	return nil
}

// acquire fetches both sources and builds the merged panel.
func (p *Pipeline) acquire(ctx context.Context) ([]panel.Row, error) {
	cfg := p.Cfg
	client := fetch.NewClient(cfg.WorldBankURL, p.Log)

	minYear := time.Now().Year() - cfg.Lookback
	dem, err := client.VDem(ctx, cfg.VDemURL, minYear)
	if err != nil {
		return nil, fmt.Errorf("acquire governance panel: %w", err)
	}

	ind := panel.Indicators{}
	for _, s := range []struct {
		code string
		dst  *panel.Values
	}{
		{cfg.Indicators.DependencyRatio, &ind.DepRatio},
		{cfg.Indicators.RDExpenditure, &ind.RDExpend},
		{cfg.Indicators.Researchers, &ind.Researchers},
		{cfg.Indicators.Publications, &ind.Publications},
		{cfg.Indicators.Population, &ind.Population},
		{cfg.Indicators.GDP, &ind.GDP},
	} {
		obs, err := client.Indicator(ctx, s.code, cfg.Lookback)
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", s.code, err)
		}

		*s.dst = toValues(obs)
	}

	demRows := make([]panel.DemRow, len(dem))
	for i, d := range dem {
		demRows[i] = panel.DemRow{
			Country: d.Country,
			TextID:  d.TextID,
			Year:    d.Year,
			Region:  panel.RegionLabel(d.Region),
		}
	}

	rows := panel.Build(demRows, ind)
	p.Log.Info().Int("rows", len(rows)).Msg("merged panel")

	return rows, nil
}

func (p *Pipeline) persist(ctx context.Context, rows []panel.Row) error {
	st, err := store.Open(p.Cfg.Store)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() { _ = st.Close() }()

	table := p.Cfg.Store.Table
	if table == "" {
		table = "agepanel"
	}

	if err := st.CreatePanelTable(ctx, table); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := st.SavePanel(ctx, table, rows); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	p.Log.Info().Str("table", table).Int("rows", len(rows)).Msg("panel persisted")

	return nil
}

func (p *Pipeline) marginalEffects(window []panel.Row, response string, get func(panel.Row) float64,
	title, fileName string) error {
	x := make([]float64, len(window))
	y := make([]float64, len(window))
	region := make([]string, len(window))
	for i, r := range window {
		x[i] = r.DepRatio
		y[i] = get(r)
		region[i] = r.Region
	}

	model, err := regress.Fit(response, x, y, region, panel.Regions)
	if err != nil {
		return fmt.Errorf("regression: %w", err)
	}

	lo, hi := model.Range()
	p.Log.Info().Str("response", response).Int("dof", model.DoF()).
		Float64("sigma2", model.Sigma2()).
		Float64("x_min", lo).Float64("x_max", hi).Msg("model fitted")

	preds := model.MarginalEffects()

	return charts.MarginalEffects(preds, title, response, p.artifact(fileName))
}

func (p *Pipeline) writePanelCSV(rows []panel.Row) error {
	w, err := NewArtifactWriter(p.artifact(p.Cfg.Artifacts.PanelCSV))
	if err != nil {
		return fmt.Errorf("panel csv: %w", err)
	}

	w.WriteHeader([]string{"country", "iso3", "region", "year", "dep_ratio", "rd_expend",
		"researchers", "publications", "population", "gdp", "pubs_per_million"})
	for _, r := range rows {
		w.WriteRow(r.Country, r.ISO3, r.Region, r.Year, r.DepRatio, r.RDExpend,
			r.Researchers, r.Publications, r.Population, r.GDP, r.PubsPerMillion)
	}

	return w.Close()
}

func (p *Pipeline) writeSummaryCSV(summaries []panel.RegionYear) error {
	w, err := NewArtifactWriter(p.artifact(p.Cfg.Artifacts.SummaryCSV))
	if err != nil {
		return fmt.Errorf("summary csv: %w", err)
	}

	w.WriteHeader([]string{"region", "year", "dep_ratio", "rd_expend", "researchers",
		"publications", "population", "gdp"})
	for _, s := range summaries {
		w.WriteRow(s.Region, s.Year, s.DepRatio, s.RDExpend, s.Researchers,
			s.Publications, s.Population, s.GDP)
	}

	return w.Close()
}

func (p *Pipeline) artifact(name string) string {
	return filepath.Join(p.Cfg.OutDir, name)
}

func toValues(obs []fetch.Observation) panel.Values {
	v := make(panel.Values, len(obs))
	for _, o := range obs {
		if o.ISO3 == "" {
			continue
		}

		v[panel.Key{ISO3: o.ISO3, Year: o.Year}] = o.Value
	}

	return v
}

func depRatios(rows []panel.Row) []float64 {
	x := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.DepRatio
	}

	return x
}

func pubsPerMillion(r panel.Row) float64 { return r.PubsPerMillion }

func researchers(r panel.Row) float64 { return r.Researchers }
