// Package validate checks raw keyword records against their documented
// metric domains before any scoring happens.
//
// Errors are collected across the whole batch rather than failing on the
// first bad row, so a caller gets one complete report per run.
package validate

import (
	"fmt"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// Metric domain bounds.
const (
	minDifficulty = 0
	maxDifficulty = 10
	minTraffic    = 0
	maxTraffic    = 10
)

// RowError reports a single out-of-domain field on a single input row.
// Row is 1-based and refers to data rows, matching how spreadsheet users
// count them.
type RowError struct {
	Row   int
	Field string
	Value float64
	Text  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%q): field %s value %g out of domain", e.Row, e.Text, e.Field, e.Value)
}

func (e *RowError) Unwrap() error { return ErrOutOfDomain }

// Records validates the batch. With clamp disabled it returns the records
// unchanged plus every RowError found; scoring must not proceed when any
// are returned. With clamp enabled, out-of-domain values are pulled to the
// nearest domain bound and no errors are reported for them.
//
// Empty keyword text is always an error; there is no meaningful value to
// clamp it to.
func Records(records []model.KeywordRecord, clamp bool) ([]model.KeywordRecord, []*RowError) {
	out := make([]model.KeywordRecord, len(records))
	copy(out, records)

	var errs []*RowError
	for i := range out {
		row := i + 1
		r := &out[i]

		if r.Key() == "" {
			errs = append(errs, &RowError{Row: row, Field: "key", Text: r.Text})
			continue
		}

		check := func(field string, v float64, lo, hi float64) float64 {
			if v >= lo && v <= hi {
				return v
			}
			if clamp {
				return clampTo(v, lo, hi)
			}
			errs = append(errs, &RowError{Row: row, Field: field, Value: v, Text: r.Text})
			return v
		}

		r.Difficulty = check("difficulty", r.Difficulty, minDifficulty, maxDifficulty)
		r.Traffic = check("traffic", r.Traffic, minTraffic, maxTraffic)
		// App count has no upper bound, only non-negativity.
		if r.AppCount < 0 {
			if clamp {
				r.AppCount = 0
			} else {
				errs = append(errs, &RowError{Row: row, Field: "apps", Value: r.AppCount, Text: r.Text})
			}
		}
	}
	return out, errs
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
