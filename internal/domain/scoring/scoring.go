// Package scoring computes composite keyword scores from normalized metrics.
package scoring

import (
	"math"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// Default factor weights, the mix the original selection process shipped
// with: rank-ability and demand dominate, competition and length are
// secondary tie-breakers.
const (
	defaultDifficultyWeight = 0.55
	defaultTrafficWeight    = 0.35
	defaultAppCountWeight   = 0.05
	defaultLengthWeight     = 0.05
)

// Weights holds one non-negative weight per normalized factor. They
// conventionally sum to 1 but are not required to.
type Weights struct {
	Difficulty float64
	Traffic    float64
	AppCount   float64
	Length     float64
}

// DefaultWeights returns the documented default factor mix.
func DefaultWeights() Weights {
	return Weights{
		Difficulty: defaultDifficultyWeight,
		Traffic:    defaultTrafficWeight,
		AppCount:   defaultAppCountWeight,
		Length:     defaultLengthWeight,
	}
}

// Valid reports whether every weight is non-negative and finite.
func (w Weights) Valid() bool {
	for _, v := range []float64{w.Difficulty, w.Traffic, w.AppCount, w.Length} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Difficulty + w.Traffic + w.AppCount + w.Length
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the default factor weights. Invalid weights are
// ignored; validation with an error belongs to the configuration layer.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Valid() {
			s.weights = w
		}
	}
}

// Scorer combines normalized metrics into one composite score. Scoring is
// a pure function of the normalized fields and the configured weights; the
// same inputs always produce the same score.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the scorer's configured weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the weighted sum over the record's normalized fields and
// returns the record augmented with it. The input is not mutated.
func (s *Scorer) Score(r model.KeywordRecord, norm model.Normalized) model.ScoredRecord {
	composite := s.weights.Difficulty*norm.Difficulty +
		s.weights.Traffic*norm.Traffic +
		s.weights.AppCount*norm.AppCount +
		s.weights.Length*norm.Length
	return model.ScoredRecord{
		KeywordRecord: r,
		Norm:          norm,
		Score:         composite,
	}
}
