package metric_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// RATIO SEMANTICS
// =============================================================================

func TestRatio_Undefined_ComparisonsAreFalse(t *testing.T) {
	// GIVEN: An undefined ratio (zero denominator)
	// WHEN: Comparing it against any threshold
	// THEN: Every comparison is false - undefined never crosses a threshold

	r := metric.Divide(decimal.NewFromInt(5), decimal.Zero)

	assert.False(t, r.Defined())
	assert.False(t, r.LessThan(decimal.NewFromInt(1000)))
	assert.False(t, r.AtLeast(decimal.NewFromInt(-1000)))
	assert.False(t, r.GreaterThan(decimal.NewFromInt(-1000)))
}

func TestRatio_Defined_Comparisons(t *testing.T) {
	r := metric.Divide(decimal.NewFromInt(10), decimal.NewFromInt(4))

	require.True(t, r.Defined())
	assert.True(t, r.MustValue().Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, r.LessThan(decimal.NewFromInt(3)))
	assert.True(t, r.AtLeast(decimal.NewFromFloat(2.5)))
	assert.False(t, r.GreaterThan(decimal.NewFromFloat(2.5)))
}

func TestRatio_MustValue_PanicsWhenUndefined(t *testing.T) {
	assert.Panics(t, func() { metric.UndefinedRatio().MustValue() })
}

func TestRatio_JSON_UndefinedIsNull(t *testing.T) {
	// GIVEN: One defined and one undefined ratio in a struct
	// WHEN: Marshaling to JSON
	// THEN: Undefined serializes as null, never 0 or "Infinity"

	payload := struct {
		Defined   metric.Ratio `json:"defined"`
		Undefined metric.Ratio `json:"undefined"`
	}{
		Defined:   metric.DefinedRatio(decimal.NewFromFloat(1.5)),
		Undefined: metric.UndefinedRatio(),
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":"1.5","undefined":null}`, string(data))
}

// =============================================================================
// DIVISION ENTRY POINTS
// =============================================================================

func TestPercent(t *testing.T) {
	r := metric.Percent(decimal.NewFromInt(25), decimal.NewFromInt(200))
	require.True(t, r.Defined())
	assert.True(t, r.MustValue().Equal(decimal.NewFromFloat(12.5)))

	assert.False(t, metric.Percent(decimal.NewFromInt(25), decimal.Zero).Defined())
}

func TestPercentChange(t *testing.T) {
	// 100 -> 200 is +100%
	r := metric.PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(200))
	require.True(t, r.Defined())
	assert.True(t, r.MustValue().Equal(decimal.NewFromInt(100)))

	// 200 -> 150 is -25%
	r = metric.PercentChange(decimal.NewFromInt(200), decimal.NewFromInt(150))
	require.True(t, r.Defined())
	assert.True(t, r.MustValue().Equal(decimal.NewFromInt(-25)))

	// from zero is undefined, not Inf
	assert.False(t, metric.PercentChange(decimal.Zero, decimal.NewFromInt(50)).Defined())
}

func TestMean(t *testing.T) {
	r := metric.Mean([]decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.NewFromInt(2),
		decimal.NewFromInt(6),
	})
	require.True(t, r.Defined())
	assert.True(t, r.MustValue().Equal(decimal.NewFromInt(3)))

	assert.False(t, metric.Mean(nil).Defined())
}
