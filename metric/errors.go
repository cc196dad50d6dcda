/*
errors.go - Centralized error types for the insight engine

PURPOSE:
  All structural error types in one place. The engine's error policy is
  two-tier:

  1. Structural failures (missing columns, unreadable sources, invalid
     parameters) are Go errors and abort the operation.
  2. Business-data sparsity (empty windows, zero denominators) is NEVER an
     error - it is reported through undefined Ratios and NO_*_DATA flags.

USAGE:
  if errors.Is(err, metric.ErrSchema) {
      // fatal: no partial engine may run
  }

SEE ALSO:
  - dataset/loader.go: raises SchemaError during context construction
*/
package metric

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSchema is the category for all load-time schema violations.
	ErrSchema = errors.New("schema error")

	// ErrSourceMissing is returned when a record source does not exist at all
	// (missing file or table). Distinct from an empty-but-valid source.
	ErrSourceMissing = errors.New("record source missing")

	// ErrInvalidParameter is returned for programmer errors such as a
	// non-positive window size.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SchemaError reports required columns missing from a record set. It is
// fatal: context construction stops and no primitive may run.
type SchemaError struct {
	RecordSet string
	Missing   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s missing columns: %s", e.RecordSet, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// SourceMissingError reports an absent record source.
type SourceMissingError struct {
	RecordSet string
	Detail    string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("%s source missing: %s", e.RecordSet, e.Detail)
}

func (e *SourceMissingError) Unwrap() error { return ErrSourceMissing }

// IsFatal reports whether err must abort context construction.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSchema) || errors.Is(err, ErrSourceMissing)
}
