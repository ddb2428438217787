// Package normalize converts raw keyword metrics into a common [0,1] scale.
//
// Normalization is two-phase: Fit reduces the whole batch to frozen
// per-field statistics, and the resulting Mapping applies a pure per-record
// transform. Orientation is handled here, not in the scorer: every
// normalized field comes out with higher == more desirable, so difficulty
// and app count (cost metrics) are flipped during mapping.
package normalize

import (
	"math"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// ScaleMode selects how raw values are mapped onto [0,1].
type ScaleMode string

const (
	// ScaleObserved uses min-max scaling over the batch's observed range.
	ScaleObserved ScaleMode = "observed"
	// ScaleFixed uses fixed denominators: the native [0,10] domain for
	// difficulty and traffic, and twice the configured base for app count
	// and length. Values past the denominator saturate at the worst score.
	ScaleFixed ScaleMode = "fixed"
)

// LengthPreference selects which keyword lengths count as desirable.
type LengthPreference string

const (
	// PreferShorter treats shorter keywords as better.
	PreferShorter LengthPreference = "shorter"
	// PreferTarget treats keywords closest to a target length as better.
	PreferTarget LengthPreference = "target"
)

// Default fixed-scale denominators.
const (
	difficultyDomainMax = 10.0
	trafficDomainMax    = 10.0
	defaultAppsBase     = 3500
	defaultLengthBase   = 6
)

// Normalizer builds Mappings from record batches.
type Normalizer struct {
	mode         ScaleMode
	lengthPref   LengthPreference
	targetLength int
	appsBase     float64
	lengthBase   float64
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		mode:       ScaleObserved,
		lengthPref: PreferShorter,
		appsBase:   defaultAppsBase,
		lengthBase: defaultLengthBase,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// span is one frozen observed range.
type span struct {
	min, max float64
}

func (s *span) observe(v float64) {
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
}

// scale maps v onto [0,1] within the span, higher raw == higher scaled.
// A zero-variance span carries no information and maps every record to the
// neutral-favorable 1.0 instead of dividing by zero.
func (s span) scale(v float64) float64 {
	if s.max-s.min == 0 {
		return 1.0
	}
	return (v - s.min) / (s.max - s.min)
}

// scaleCost is scale with the orientation flipped: lower raw == higher
// scaled. The zero-variance convention still maps to 1.0, which is why the
// flip lives here rather than as 1-scale(v) at the call site.
func (s span) scaleCost(v float64) float64 {
	if s.max-s.min == 0 {
		return 1.0
	}
	return (s.max - v) / (s.max - s.min)
}

func newSpan() span {
	return span{min: math.Inf(1), max: math.Inf(-1)}
}

// Mapping is the frozen result of fitting a batch. Apply is pure and safe
// for concurrent use once Fit has returned.
type Mapping struct {
	mode         ScaleMode
	lengthPref   LengthPreference
	targetLength int
	appsBase     float64
	lengthBase   float64

	difficulty span
	traffic    span
	apps       span
	lengthDev  span // keyword length, or |length - target| in target mode
}

// Fit reduces the batch to per-field statistics and returns the frozen
// Mapping. The batch must be non-empty.
func (n *Normalizer) Fit(records []model.KeywordRecord) (*Mapping, error) {
	if len(records) == 0 {
		return nil, ErrEmptySet
	}

	m := &Mapping{
		mode:         n.mode,
		lengthPref:   n.lengthPref,
		targetLength: n.targetLength,
		appsBase:     n.appsBase,
		lengthBase:   n.lengthBase,
		difficulty:   newSpan(),
		traffic:      newSpan(),
		apps:         newSpan(),
		lengthDev:    newSpan(),
	}
	for _, r := range records {
		m.difficulty.observe(r.Difficulty)
		m.traffic.observe(r.Traffic)
		m.apps.observe(r.AppCount)
		m.lengthDev.observe(m.lengthCost(r))
	}
	return m, nil
}

// lengthCost is the raw cost attributed to a record's length: the length
// itself when shorter is better, the distance to the target otherwise.
func (m *Mapping) lengthCost(r model.KeywordRecord) float64 {
	l := float64(r.Length())
	if m.lengthPref == PreferTarget {
		return math.Abs(l - float64(m.targetLength))
	}
	return l
}

// Apply normalizes a single record against the frozen statistics.
func (m *Mapping) Apply(r model.KeywordRecord) model.Normalized {
	if m.mode == ScaleFixed {
		return m.applyFixed(r)
	}
	return model.Normalized{
		// Cost metrics are flipped so higher is always better.
		Difficulty: m.difficulty.scaleCost(r.Difficulty),
		Traffic:    m.traffic.scale(r.Traffic),
		AppCount:   m.apps.scaleCost(r.AppCount),
		Length:     m.lengthDev.scaleCost(m.lengthCost(r)),
	}
}

func (m *Mapping) applyFixed(r model.KeywordRecord) model.Normalized {
	return model.Normalized{
		Difficulty: (difficultyDomainMax - r.Difficulty) / difficultyDomainMax,
		Traffic:    r.Traffic / trafficDomainMax,
		AppCount:   1 - saturate(r.AppCount/(m.appsBase*2)),
		Length:     1 - saturate(m.lengthCost(r)/(m.lengthBase*2)),
	}
}

func saturate(ratio float64) float64 {
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}
