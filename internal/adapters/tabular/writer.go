package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// outputHeader matches the input row shape plus the derived normalized
// sub-scores and composite score, for auditability of a run.
var outputHeader = []string{
	"key", "difficulty", "traffic", "apps", "length",
	"norm_difficulty", "norm_traffic", "norm_apps", "norm_length",
	"score",
}

// WriteRecords encodes scored records in their given order.
func WriteRecords(w io.Writer, records []model.ScoredRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(outputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Text,
			formatFloat(r.Difficulty),
			formatFloat(r.Traffic),
			formatFloat(r.AppCount),
			strconv.Itoa(r.Length()),
			formatFloat(r.Norm.Difficulty),
			formatFloat(r.Norm.Traffic),
			formatFloat(r.Norm.AppCount),
			formatFloat(r.Norm.Length),
			formatFloat(r.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %q: %w", r.Text, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat renders the shortest decimal that round-trips, so rerunning
// a file through the pipeline loses no precision.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
