// Package selection orders scored keywords and greedily fills a
// constrained keyword slot with the best non-redundant candidates.
package selection

import (
	"math"
	"sort"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// Defaults for the selection procedure.
const (
	// defaultEpsilon absorbs floating-point noise when comparing
	// composite scores.
	defaultEpsilon = 1e-9
	// defaultSeparatorCost is one character per keyword after the first,
	// matching a comma-joined metadata field.
	defaultSeparatorCost = 1
)

// Selector produces a Selection from a scored batch.
type Selector struct {
	budget        int // total character budget, 0 = unlimited
	maxCount      int // maximum keywords to select, 0 = unlimited
	separatorCost int
	epsilon       float64
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithBudget caps the total character count of the selection.
func WithBudget(budget int) Option {
	return func(s *Selector) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithMaxCount caps how many keywords may be selected.
func WithMaxCount(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.maxCount = n
		}
	}
}

// WithSeparatorCost sets the per-keyword separator overhead charged for
// every selected keyword after the first. Zero disables it.
func WithSeparatorCost(cost int) Option {
	return func(s *Selector) {
		if cost >= 0 {
			s.separatorCost = cost
		}
	}
}

// New creates a Selector with configuration options.
func New(opts ...Option) *Selector {
	s := &Selector{
		separatorCost: defaultSeparatorCost,
		epsilon:       defaultEpsilon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select orders the batch and greedily fills the budget. The walk skips
// records that do not fit and keeps going, since a later, shorter keyword
// may still fit; this is a greedy fill, not an optimal subset solve.
// Duplicate keyword texts (case-insensitive, trimmed) keep only their
// highest-scoring occurrence. An empty batch is an error; a budget that
// nothing fits into yields an empty, valid Selection.
func (s *Selector) Select(records []model.ScoredRecord) (model.Selection, error) {
	if len(records) == 0 {
		return model.Selection{}, ErrEmptyInput
	}

	ordered := s.dedupe(records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.ranksAbove(ordered[i], ordered[j])
	})

	var sel model.Selection
	for _, r := range ordered {
		if s.maxCount > 0 && len(sel.Records) >= s.maxCount {
			break
		}
		cost := r.Length()
		if len(sel.Records) > 0 {
			cost += s.separatorCost
		}
		if s.budget > 0 && sel.TotalChars+cost > s.budget {
			continue
		}
		sel.Records = append(sel.Records, r)
		sel.TotalChars += cost
	}
	return sel, nil
}

// dedupe collapses records sharing a canonical key to the single occurrence
// that ranks highest.
func (s *Selector) dedupe(records []model.ScoredRecord) []model.ScoredRecord {
	best := make(map[string]model.ScoredRecord, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		key := r.Key()
		cur, seen := best[key]
		if !seen {
			best[key] = r
			order = append(order, key)
			continue
		}
		if s.ranksAbove(r, cur) {
			best[key] = r
		}
	}
	out := make([]model.ScoredRecord, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// ranksAbove is the full deterministic ordering: descending composite
// score within epsilon, then ascending length, then lexicographic text.
func (s *Selector) ranksAbove(a, b model.ScoredRecord) bool {
	return ranksAbove(a, b, s.epsilon)
}

func ranksAbove(a, b model.ScoredRecord, epsilon float64) bool {
	if math.Abs(a.Score-b.Score) > epsilon {
		return a.Score > b.Score
	}
	if a.Length() != b.Length() {
		return a.Length() < b.Length()
	}
	return a.Text < b.Text
}

// Order sorts records in place by the same deterministic ordering Select
// uses, without applying any budget, count or duplicate constraints.
func Order(records []model.ScoredRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return ranksAbove(records[i], records[j], defaultEpsilon)
	})
}
