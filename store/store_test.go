package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkarlin/agepanel/panel"
)

func TestInsertSQLPlaceholders(t *testing.T) {
	ch := &Store{dialect: ClickHouse}
	assert.True(t, strings.HasSuffix(ch.insertSQL("t"), "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"))

	pg := &Store{dialect: Postgres}
	assert.Contains(t, pg.insertSQL("t"), "$1")
	assert.True(t, strings.HasSuffix(pg.insertSQL("t"), "$11)"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "sqlite"})
	assert.NotNil(t, err)
}

// TestPanelRoundTrip needs a live server; configure one with
// AGEPANEL_STORE_DRIVER plus the matching connection settings.
func TestPanelRoundTrip(t *testing.T) {
	cfg := Config{
		Driver:   os.Getenv("AGEPANEL_STORE_DRIVER"),
		Host:     os.Getenv("AGEPANEL_STORE_HOST"),
		User:     os.Getenv("AGEPANEL_STORE_USER"),
		Password: os.Getenv("AGEPANEL_STORE_PASSWORD"),
		Database: os.Getenv("AGEPANEL_STORE_DATABASE"),
		DSN:      os.Getenv("AGEPANEL_STORE_DSN"),
	}
	if !cfg.Enabled() {
		t.Skip("no store configured")
	}

	st, err := Open(cfg)
	assert.Nil(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	table := fmt.Sprintf("agepanel_test_%d", time.Now().UnixNano())

	assert.Nil(t, st.CreatePanelTable(ctx, table))
	defer func() { _, _ = st.db.ExecContext(ctx, "DROP TABLE "+table) }()

	rows := []panel.Row{
		{Country: "Sweden", ISO3: "SWE", Region: panel.Regions[4], Year: 2000,
			DepRatio: 28, RDExpend: 3.2, Researchers: 5000, Publications: 9000,
			Population: 8.9e6, GDP: 2.5e11, PubsPerMillion: 1011.2},
		{Country: "Somaliland", ISO3: "", Region: "", Year: 2000,
			DepRatio: math.NaN(), RDExpend: math.NaN(), Researchers: math.NaN(),
			Publications: math.NaN(), Population: math.NaN(), GDP: math.NaN(),
			PubsPerMillion: math.NaN()},
	}
	assert.Nil(t, st.SavePanel(ctx, table, rows))

	var n int
	assert.Nil(t, st.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&n))
	assert.Equal(t, len(rows), n)
}
