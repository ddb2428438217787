// Package tabular reads and writes the delimited record streams the
// pipeline consumes and produces. Columns are resolved by header name
// exactly once per file, never per row.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// Accepted header aliases per logical field, compared case-insensitively.
var (
	keyAliases        = []string{"key", "keyword", "text"}
	difficultyAliases = []string{"difficulty", "diff"}
	trafficAliases    = []string{"traffic", "volume"}
	appsAliases       = []string{"apps", "app_count", "appcount"}

	// Device-split metric pairs, averaged when no single column exists.
	// This is the column shape ASO scrape exports commonly carry.
	difficultyPair = [2]string{"iphone_diff", "ipad_diff"}
	appsPair       = [2]string{"iphone_apps", "ipad_apps"}
)

// accessor extracts one logical field from a row. Resolved once from the
// header, then applied per row.
type accessor func(row []string) (float64, error)

// columns maps the logical fields onto a parsed header.
type columns struct {
	key        int
	difficulty accessor
	traffic    accessor
	apps       accessor
}

// ReadRecords decodes a keyword metrics table. The first row must be a
// header naming, in any order, the keyword text, difficulty, traffic and
// app count columns (see the alias lists); extra columns are ignored.
func ReadRecords(r io.Reader) ([]model.KeywordRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.KeywordRecord
	for row := 2; ; row++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		rec := model.KeywordRecord{Text: cells[cols.key]}
		if rec.Difficulty, err = cols.difficulty(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rec.Traffic, err = cols.traffic(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if rec.AppCount, err = cols.apps(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	find := func(aliases []string) (int, bool) {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i, true
			}
		}
		return 0, false
	}

	var cols columns
	key, ok := find(keyAliases)
	if !ok {
		return columns{}, fmt.Errorf("%w: keyword text (any of %s)", ErrMissingColumn, strings.Join(keyAliases, ", "))
	}
	cols.key = key

	var err error
	if cols.difficulty, err = numericAccessor("difficulty", index, difficultyAliases, difficultyPair); err != nil {
		return columns{}, err
	}
	if cols.traffic, err = numericAccessor("traffic", index, trafficAliases, [2]string{}); err != nil {
		return columns{}, err
	}
	if cols.apps, err = numericAccessor("apps", index, appsAliases, appsPair); err != nil {
		return columns{}, err
	}
	return cols, nil
}

// numericAccessor builds the accessor for one numeric field: a single
// aliased column when present, otherwise the average of a device-split
// pair when both halves exist.
func numericAccessor(field string, index map[string]int, aliases []string, pair [2]string) (accessor, error) {
	for _, a := range aliases {
		if i, ok := index[a]; ok {
			return func(row []string) (float64, error) {
				return parseCell(field, row[i])
			}, nil
		}
	}
	if pair[0] != "" {
		i, okA := index[pair[0]]
		j, okB := index[pair[1]]
		if okA && okB {
			return func(row []string) (float64, error) {
				a, err := parseCell(field, row[i])
				if err != nil {
					return 0, err
				}
				b, err := parseCell(field, row[j])
				if err != nil {
					return 0, err
				}
				return (a + b) / 2, nil
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (any of %s)", ErrMissingColumn, field, strings.Join(aliases, ", "))
}

func parseCell(field, cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q", ErrBadCell, field, cell)
	}
	return v, nil
}
