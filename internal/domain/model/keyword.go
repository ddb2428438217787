// Package model contains domain models passed between pipeline stages.
package model

import (
	"strings"
	"unicode/utf8"
)

// KeywordRecord is a single candidate keyword with its raw metrics,
// one per input row. Records are immutable once parsed.
type KeywordRecord struct {
	Text       string  // the keyword or keyword phrase, non-empty
	Difficulty float64 // how hard to rank for, 0 = easy .. 10 = hard
	Traffic    float64 // search volume, 0 = none .. 10 = high
	AppCount   float64 // number of competing apps using the keyword, >= 0
}

// Length returns the character count of the keyword text, counted in runes
// so that non-ASCII keywords are measured the way store metadata fields do.
func (k KeywordRecord) Length() int {
	return utf8.RuneCountInString(k.Text)
}

// Key returns the canonical identity of the keyword used for duplicate
// suppression: whitespace-trimmed and case-folded.
func (k KeywordRecord) Key() string {
	return strings.ToLower(strings.TrimSpace(k.Text))
}

// Normalized holds the per-field normalized values of one record. Every
// field is oriented so that a higher value is always more desirable.
type Normalized struct {
	Difficulty float64
	Traffic    float64
	AppCount   float64
	Length     float64
}

// ScoredRecord is a KeywordRecord augmented with its normalized metrics
// and composite score. Derived exactly once per record, then immutable.
type ScoredRecord struct {
	KeywordRecord
	Norm  Normalized
	Score float64
}

// Selection is the final ordered pick: selected records in descending
// score order together with the characters they consume.
type Selection struct {
	Records []ScoredRecord
	// TotalChars is the sum of selected keyword lengths plus any
	// configured separator cost between them.
	TotalChars int
}

// Texts returns the selected keyword texts in selection order.
func (s Selection) Texts() []string {
	out := make([]string, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Text
	}
	return out
}
