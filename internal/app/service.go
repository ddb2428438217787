// Package app provides the core service that runs the keyword ranking
// pipeline: validate, normalize, score, select.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aso-kit/keyrank/internal/adapters/pool"
	"github.com/aso-kit/keyrank/internal/domain/model"
	"github.com/aso-kit/keyrank/internal/domain/normalize"
	"github.com/aso-kit/keyrank/internal/domain/scoring"
	"github.com/aso-kit/keyrank/internal/domain/selection"
	"github.com/aso-kit/keyrank/internal/domain/validate"
	"github.com/aso-kit/keyrank/pkg/logger"
	"github.com/aso-kit/keyrank/pkg/metrics"
)

// Service wires the pipeline stages together. A Service is stateless
// across runs; every call works on its own batch.
type Service struct {
	normalizer *normalize.Normalizer
	scorer     *scoring.Scorer
	selector   *selection.Selector
	workers    *pool.Pool

	clamp  bool
	budget int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*settings)

// settings collects option values before the components are built.
type settings struct {
	weights       scoring.Weights
	budget        int
	maxCount      int
	separatorCost int
	lengthPref    normalize.LengthPreference
	targetLength  int
	scaleMode     normalize.ScaleMode
	appsBase      float64
	lengthBase    float64
	clamp         bool
	workerCount   int
	logger        logger.Logger
}

// WithWeights sets the composite score factor weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *settings) { s.weights = w }
}

// WithCharacterBudget caps the selection's total character count.
func WithCharacterBudget(budget int) Option {
	return func(s *settings) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithMaxCount caps how many keywords may be selected.
func WithMaxCount(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxCount = n
		}
	}
}

// WithSeparatorCost sets the per-keyword separator overhead.
func WithSeparatorCost(cost int) Option {
	return func(s *settings) {
		if cost >= 0 {
			s.separatorCost = cost
		}
	}
}

// WithLengthPreference sets the length orientation and its target.
func WithLengthPreference(pref normalize.LengthPreference, target int) Option {
	return func(s *settings) {
		s.lengthPref = pref
		s.targetLength = target
	}
}

// WithScaleMode selects observed or fixed scaling, with the fixed-mode
// denominator bases.
func WithScaleMode(mode normalize.ScaleMode, appsBase, lengthBase float64) Option {
	return func(s *settings) {
		s.scaleMode = mode
		s.appsBase = appsBase
		s.lengthBase = lengthBase
	}
}

// WithClamping pulls out-of-domain metrics to their bounds instead of
// rejecting the row.
func WithClamping(clamp bool) Option {
	return func(s *settings) { s.clamp = clamp }
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	cfg := settings{
		weights:       scoring.DefaultWeights(),
		separatorCost: 1,
		lengthPref:    normalize.PreferShorter,
		scaleMode:     normalize.ScaleObserved,
		workerCount:   1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("pipeline")
	}

	normOpts := []normalize.Option{
		normalize.WithScaleMode(cfg.scaleMode),
		normalize.WithLengthPreference(cfg.lengthPref),
		normalize.WithTargetLength(cfg.targetLength),
	}
	if cfg.appsBase > 0 {
		normOpts = append(normOpts, normalize.WithAppsBase(cfg.appsBase))
	}
	if cfg.lengthBase > 0 {
		normOpts = append(normOpts, normalize.WithLengthBase(cfg.lengthBase))
	}

	return &Service{
		normalizer: normalize.New(normOpts...),
		scorer:     scoring.New(scoring.WithWeights(cfg.weights)),
		selector: selection.New(
			selection.WithBudget(cfg.budget),
			selection.WithMaxCount(cfg.maxCount),
			selection.WithSeparatorCost(cfg.separatorCost),
		),
		workers: pool.New(pool.WithWorkers(cfg.workerCount)),
		clamp:   cfg.clamp,
		budget:  cfg.budget,
		logger:  cfg.logger,
	}
}

// ScoreKeywords validates and scores the batch, returning every record in
// the selection ordering without applying budget or count constraints.
func (s *Service) ScoreKeywords(ctx context.Context, records []model.KeywordRecord) ([]model.ScoredRecord, error) {
	scored, _, err := s.score(ctx, records)
	if err != nil {
		return nil, err
	}
	selection.Order(scored)
	return scored, nil
}

// SelectKeywords runs the full pipeline and returns the final selection.
// An empty selection because nothing fits the budget is a valid outcome,
// reported with a warning log rather than an error.
func (s *Service) SelectKeywords(ctx context.Context, records []model.KeywordRecord) (model.Selection, error) {
	scored, runID, err := s.score(ctx, records)
	if err != nil {
		return model.Selection{}, err
	}

	start := time.Now()
	sel, err := s.selector.Select(scored)
	metrics.ObserveStage("select", time.Since(start))
	if err != nil {
		return model.Selection{}, err
	}

	metrics.UpdateSelected(len(sel.Records))
	metrics.UpdateBudgetUsed(sel.TotalChars)

	if len(sel.Records) == 0 && s.budget > 0 {
		s.logger.Warn(ctx, "no keyword fits the character budget",
			logger.String("run_id", runID),
			logger.Int("budget", s.budget),
			logger.Int("candidates", len(scored)),
		)
		return sel, nil
	}

	s.logger.Info(ctx, "selection complete",
		logger.String("run_id", runID),
		logger.Int("selected", len(sel.Records)),
		logger.Int("chars_used", sel.TotalChars),
	)
	return sel, nil
}

// score runs the shared front half of the pipeline: validation, the
// two-phase normalization, and the (possibly parallel) scoring map. The
// normalization statistics are fully frozen before any scoring worker
// starts, and the pool joins before the scored batch is returned.
func (s *Service) score(ctx context.Context, records []model.KeywordRecord) ([]model.ScoredRecord, string, error) {
	runID := uuid.NewString()
	metrics.RecordRowsRead(len(records))

	start := time.Now()
	valid, rowErrs := validate.Records(records, s.clamp)
	metrics.ObserveStage("validate", time.Since(start))
	if len(rowErrs) > 0 {
		metrics.RecordRowsRejected(len(rowErrs))
		joined := make([]error, len(rowErrs))
		for i, e := range rowErrs {
			joined[i] = e
		}
		s.logger.Error(ctx, "input validation failed",
			logger.String("run_id", runID),
			logger.Int("bad_rows", len(rowErrs)),
		)
		return nil, runID, fmt.Errorf("%w: %d of %d rows rejected: %w",
			ErrValidation, len(rowErrs), len(records), errors.Join(joined...))
	}
	if len(valid) == 0 {
		return nil, runID, selection.ErrEmptyInput
	}

	start = time.Now()
	mapping, err := s.normalizer.Fit(valid)
	metrics.ObserveStage("normalize", time.Since(start))
	if err != nil {
		return nil, runID, err
	}

	start = time.Now()
	scored, err := s.workers.Map(ctx, valid, func(r model.KeywordRecord) model.ScoredRecord {
		return s.scorer.Score(r, mapping.Apply(r))
	})
	metrics.ObserveStage("score", time.Since(start))
	if err != nil {
		return nil, runID, err
	}
	for _, r := range scored {
		metrics.ObserveScore(r.Score)
	}

	s.logger.Debug(ctx, "batch scored",
		logger.String("run_id", runID),
		logger.Int("records", len(scored)),
		logger.Int("workers", s.workers.Workers()),
	)
	return scored, runID, nil
}
