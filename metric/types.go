/*
Package metric provides the shared numeric primitives for the insight engine.

PURPOSE:
  Every monetary figure, percentage, and ratio in the engine flows through
  this package. It exists to enforce two invariants that the rest of the
  system depends on:

  1. Precision: all currency arithmetic uses decimal.Decimal. There is no
     float64 money anywhere in the engine.
  2. No fabricated numbers: a division with a zero (or unusable) denominator
     produces an undefined Ratio, never Inf/NaN/0. Consumers must branch on
     Defined() before comparing against thresholds.

KEY CONCEPTS IN THIS FILE (types.go):
  - Ratio: an optional decimal - the result of a division that may be undefined
  - Divide/Percent/PercentChange: the only division entry points
  - Mean: decimal average over a slice

SEE ALSO:
  - time.go: Day and Window (lookback semantics)
  - errors.go: SchemaError and sentinel errors
*/
package metric

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATIO - Division result that may be undefined
// =============================================================================

// Ratio is the result of a division. When the denominator was zero (or the
// computation was otherwise meaningless) the Ratio is undefined, and every
// threshold comparison on it returns false.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// Defined reports whether the ratio carries a usable value.
func (r Ratio) Defined() bool { return r.defined }

// Value returns the underlying value and whether it is defined.
func (r Ratio) Value() (decimal.Decimal, bool) { return r.value, r.defined }

// MustValue returns the value, panicking if undefined. Only for use after an
// explicit Defined() check (and in tests).
func (r Ratio) MustValue() decimal.Decimal {
	if !r.defined {
		panic("metric: MustValue on undefined Ratio")
	}
	return r.value
}

// DefinedRatio wraps a known value.
func DefinedRatio(v decimal.Decimal) Ratio { return Ratio{value: v, defined: true} }

// UndefinedRatio is the "insufficient data" sentinel.
func UndefinedRatio() Ratio { return Ratio{} }

// Comparison helpers. All return false when the ratio is undefined: an
// undefined ratio is never "below threshold" or "above threshold".
func (r Ratio) LessThan(t decimal.Decimal) bool    { return r.defined && r.value.LessThan(t) }
func (r Ratio) AtLeast(t decimal.Decimal) bool     { return r.defined && r.value.GreaterThanOrEqual(t) }
func (r Ratio) GreaterThan(t decimal.Decimal) bool { return r.defined && r.value.GreaterThan(t) }

// String renders the value, or "undefined".
func (r Ratio) String() string {
	if !r.defined {
		return "undefined"
	}
	return r.value.String()
}

// MarshalJSON renders undefined ratios as null so callers can branch.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return r.value.MarshalJSON()
}

// =============================================================================
// DIVISION ENTRY POINTS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// Divide returns num/den, undefined when den is zero.
func Divide(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return UndefinedRatio()
	}
	return DefinedRatio(num.Div(den))
}

// Percent returns num/den*100, undefined when den is zero.
func Percent(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return UndefinedRatio()
	}
	return DefinedRatio(num.Div(den).Mul(hundred))
}

// PercentChange returns (to-from)/from*100, undefined when from is zero.
func PercentChange(from, to decimal.Decimal) Ratio {
	if from.IsZero() {
		return UndefinedRatio()
	}
	return DefinedRatio(to.Sub(from).Div(from).Mul(hundred))
}

// Mean returns the average of values, undefined for an empty slice.
func Mean(values []decimal.Decimal) Ratio {
	if len(values) == 0 {
		return UndefinedRatio()
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return DefinedRatio(sum.Div(decimal.NewFromInt(int64(len(values)))))
}

// MustParseDecimal parses s, panicking on failure. For fixed constants and
// test fixtures only.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("metric: bad decimal literal " + s)
	}
	return d
}
