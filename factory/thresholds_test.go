package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/factory"
)

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefaults_MatchPlaybook(t *testing.T) {
	th := factory.Defaults()

	assert.Equal(t, 30, th.Marketing.LookbackDays)
	assert.True(t, th.Marketing.MinROAS.Equal(decimal.NewFromInt(2)))
	assert.True(t, th.Marketing.MinNetMarginPct.IsZero())
	assert.True(t, th.Marketing.SpendSpikePct.Equal(decimal.NewFromInt(25)))

	assert.True(t, th.Portfolio.MinGoodMarginPct.Equal(decimal.NewFromInt(20)))
	assert.True(t, th.Portfolio.HighRevenueSharePct.Equal(decimal.NewFromInt(30)))

	assert.Equal(t, 30, th.Inventory.LookbackDays)
	assert.Equal(t, 3, th.Inventory.StockoutDaysThreshold)
	assert.True(t, th.Inventory.RevenueImpactThresholdPct.Equal(decimal.NewFromInt(15)))
	assert.True(t, th.Inventory.LowStockThreshold.Equal(decimal.NewFromInt(5)))

	assert.True(t, th.Channel.MaxRevenueSharePct.Equal(decimal.NewFromInt(50)))
	assert.True(t, th.Channel.MaxProfitSharePct.Equal(decimal.NewFromInt(70)))
	assert.True(t, th.Channel.MinHealthyMarginPct.Equal(decimal.NewFromInt(5)))
}

// =============================================================================
// TOML OVERRIDES
// =============================================================================

func TestParse_PartialOverrideKeepsDefaults(t *testing.T) {
	// GIVEN: A TOML document overriding only two keys
	// WHEN: Parsing
	// THEN: Named keys change, everything else stays at defaults

	doc := []byte(`
[marketing]
min_roas = 3.5

[inventory]
stockout_days_threshold = 5
`)

	th, err := factory.Parse(doc)

	require.NoError(t, err)
	assert.True(t, th.Marketing.MinROAS.Equal(decimal.NewFromFloat(3.5)))
	assert.Equal(t, 5, th.Inventory.StockoutDaysThreshold)

	assert.Equal(t, 30, th.Marketing.LookbackDays)
	assert.True(t, th.Marketing.SpendSpikePct.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 30, th.Inventory.LookbackDays)
	assert.True(t, th.Channel.MaxRevenueSharePct.Equal(decimal.NewFromInt(50)))
}

func TestParse_EmptyDocumentEqualsDefaults(t *testing.T) {
	th, err := factory.Parse(nil)

	require.NoError(t, err)
	d := factory.Defaults()
	assert.Equal(t, d.Marketing.LookbackDays, th.Marketing.LookbackDays)
	assert.True(t, th.Marketing.MinROAS.Equal(d.Marketing.MinROAS))
	assert.True(t, th.Portfolio.HighRevenueSharePct.Equal(d.Portfolio.HighRevenueSharePct))
	assert.True(t, th.Channel.MinHealthyMarginPct.Equal(d.Channel.MinHealthyMarginPct))
}

func TestParse_RejectsNonPositiveLookback(t *testing.T) {
	cases := map[string][]byte{
		"marketing zero":     []byte("[marketing]\nlookback_days = 0\n"),
		"inventory negative": []byte("[inventory]\nlookback_days = -7\n"),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := factory.Parse(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "lookback_days")
		})
	}
}

func TestParse_RejectsMalformedTOML(t *testing.T) {
	_, err := factory.Parse([]byte("[marketing\nmin_roas = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse thresholds")
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoadFile_ReadsThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.toml")
	require.NoError(t, os.WriteFile(path, []byte("[channel]\nmax_revenue_share_pct = 60.0\n"), 0o644))

	th, err := factory.LoadFile(path)

	require.NoError(t, err)
	assert.True(t, th.Channel.MaxRevenueSharePct.Equal(decimal.NewFromInt(60)))
}

func TestLoadFile_MissingFileErrors(t *testing.T) {
	_, err := factory.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read thresholds")
}
