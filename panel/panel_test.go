package panel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISO3(t *testing.T) {
	assert.Equal(t, "SWE", ISO3("SWE"))
	assert.Equal(t, "PSE", ISO3("PSG"))
	assert.Equal(t, "XKX", ISO3("KOS"))

	// historical entities and malformed ids soft-fail to ""
	assert.Equal(t, "", ISO3("DDR"))
	assert.Equal(t, "", ISO3("SML"))
	assert.Equal(t, "", ISO3("sw"))
	assert.Equal(t, "", ISO3("S1E"))
}

func TestRegionLabel(t *testing.T) {
	assert.Equal(t, "Eastern Europe and Central Asia", RegionLabel(1))
	assert.Equal(t, "Asia and Pacific", RegionLabel(6))
	assert.Equal(t, "", RegionLabel(0))
	assert.Equal(t, "", RegionLabel(7))
}

func TestBuildLeftJoin(t *testing.T) {
	dem := []DemRow{
		{Country: "Sweden", TextID: "SWE", Year: 2000, Region: RegionLabel(5)},
		{Country: "German Democratic Republic", TextID: "DDR", Year: 2000, Region: RegionLabel(1)},
		{Country: "Kenya", TextID: "KEN", Year: 2000, Region: RegionLabel(4)},
	}

	ind := Indicators{
		Publications: Values{{ISO3: "SWE", Year: 2000}: 500},
		Population:   Values{{ISO3: "SWE", Year: 2000}: 2e6},
	}

	rows := Build(dem, ind)

	// every governance row survives
	assert.Equal(t, 3, len(rows))

	assert.Equal(t, 500.0, rows[0].Publications)
	assert.Equal(t, 250.0, rows[0].PubsPerMillion)

	// unmappable identifier keeps the row with a missing join key
	assert.Equal(t, "", rows[1].ISO3)
	assert.Equal(t, "German Democratic Republic", rows[1].Country)
	assert.True(t, math.IsNaN(rows[1].Publications))

	// mappable but absent from the indicator side
	assert.Equal(t, "KEN", rows[2].ISO3)
	assert.True(t, math.IsNaN(rows[2].Population))
	assert.True(t, math.IsNaN(rows[2].PubsPerMillion))
}

func TestPerMillionRoundTrip(t *testing.T) {
	pop := 9.6e6
	pubs := 24250.0

	norm := PerMillion(pubs, pop)
	assert.InDelta(t, pubs, norm*pop/1e6, 1e-9)

	assert.True(t, math.IsNaN(PerMillion(10, 0)))
}
