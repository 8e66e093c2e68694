// Package store persists the merged panel to ClickHouse or Postgres through
// database/sql. The sink is optional; the pipeline only opens it when
// configured.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"

	"github.com/mkarlin/agepanel/panel"
)

type Dialect string

const (
	ClickHouse Dialect = "clickhouse"
	Postgres   Dialect = "postgres"
)

// Config selects the backend. ClickHouse connects by host/user/password,
// Postgres by DSN.
type Config struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
}

// Enabled reports whether a backend is configured.
func (c Config) Enabled() bool {
	return c.Driver != ""
}

type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects and pings the configured backend.
func Open(cfg Config) (*Store, error) {
	switch Dialect(cfg.Driver) {
	case ClickHouse:
		db := clickhouse.OpenDB(&clickhouse.Options{
			Addr: []string{cfg.Host + ":9000"},
			Auth: clickhouse.Auth{
				Database: cfg.Database,
				Username: cfg.User,
				Password: cfg.Password,
			},
			DialTimeout: 300 * time.Second,
			Compression: &clickhouse.Compression{
				Method: clickhouse.CompressionLZ4,
			},
		})
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("clickhouse ping: %w", err)
		}

		return &Store{db: db, dialect: ClickHouse}, nil

	case Postgres:
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("postgres ping: %w", err)
		}

		return &Store{db: db, dialect: Postgres}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

var panelColumns = []string{
	"country", "iso3", "region", "year",
	"dep_ratio", "rd_expend", "researchers",
	"publications", "population", "gdp", "pubs_per_million",
}

// CreatePanelTable creates the panel table if absent, with dialect-specific
// types.
func (s *Store) CreatePanelTable(ctx context.Context, table string) error {
	var ddl string
	switch s.dialect {
	case ClickHouse:
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    country String,
    iso3 String,
    region String,
    year Int32,
    dep_ratio Float64,
    rd_expend Float64,
    researchers Float64,
    publications Float64,
    population Float64,
    gdp Float64,
    pubs_per_million Float64
) ENGINE = MergeTree ORDER BY (iso3, year)`, table)
	case Postgres:
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    country TEXT,
    iso3 TEXT,
    region TEXT,
    year INTEGER,
    dep_ratio DOUBLE PRECISION,
    rd_expend DOUBLE PRECISION,
    researchers DOUBLE PRECISION,
    publications DOUBLE PRECISION,
    population DOUBLE PRECISION,
    gdp DOUBLE PRECISION,
    pubs_per_million DOUBLE PRECISION
)`, table)
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	return nil
}

// SavePanel inserts the rows in one transaction.
func (s *Store) SavePanel(ctx context.Context, table string, rows []panel.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save panel: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save panel: %w", err)
	}

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.Country, r.ISO3, r.Region, r.Year,
			r.DepRatio, r.RDExpend, r.Researchers,
			r.Publications, r.Population, r.GDP, r.PubsPerMillion,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save panel %s/%d: %w", r.ISO3, r.Year, err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save panel: %w", err)
	}

	return tx.Commit()
}

func (s *Store) insertSQL(table string) string {
	marks := make([]string, len(panelColumns))
	for ind := range marks {
		if s.dialect == Postgres {
			marks[ind] = fmt.Sprintf("$%d", ind+1)
		} else {
			marks[ind] = "?"
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(panelColumns, ", "), strings.Join(marks, ", "))
}
