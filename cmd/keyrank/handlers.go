package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aso-kit/keyrank/internal/adapters/tabular"
	app "github.com/aso-kit/keyrank/internal/app"
	"github.com/aso-kit/keyrank/internal/config"
	"github.com/aso-kit/keyrank/internal/domain/model"
	"github.com/aso-kit/keyrank/internal/domain/normalize"
	"github.com/aso-kit/keyrank/internal/domain/scoring"
	"github.com/aso-kit/keyrank/pkg/logger"
	"github.com/aso-kit/keyrank/pkg/metrics"
)

func runSelect(cmd *cobra.Command, flags *pipelineFlags, budget, maxCount int) error {
	cfg, records, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	if budget > 0 {
		cfg.CharacterBudget = budget
	}
	if maxCount > 0 {
		cfg.MaxCount = maxCount
	}

	svc := buildService(cfg)
	sel, err := svc.SelectKeywords(context.Background(), records)
	if err != nil {
		return err
	}

	if err := writeOutput(flags.output, sel.Records); err != nil {
		return err
	}
	return finish()
}

func runScore(cmd *cobra.Command, flags *pipelineFlags) error {
	cfg, records, err := setup(cmd, flags)
	if err != nil {
		return err
	}

	svc := buildService(cfg)
	scored, err := svc.ScoreKeywords(context.Background(), records)
	if err != nil {
		return err
	}

	if err := writeOutput(flags.output, scored); err != nil {
		return err
	}
	return finish()
}

// setup initializes logging, layers configuration (file, env, then
// command-line flags on top) and reads the input records.
func setup(cmd *cobra.Command, flags *pipelineFlags) (*config.Config, []model.KeywordRecord, error) {
	if err := logger.Init(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if err := applyFlagOverrides(cmd, cfg, flags); err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log level; falling back to info", logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	records, err := readInput(flags.input)
	if err != nil {
		return nil, nil, err
	}
	return cfg, records, nil
}

// applyFlagOverrides layers explicitly set flags over the loaded config
// and re-validates the result.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *pipelineFlags) error {
	if cmd.Flags().Changed("weights") {
		w, err := parseWeights(flags.weights)
		if err != nil {
			return err
		}
		cfg.DifficultyWeight = w.Difficulty
		cfg.TrafficWeight = w.Traffic
		cfg.AppCountWeight = w.AppCount
		cfg.LengthWeight = w.Length
	}
	if cmd.Flags().Changed("length-preference") {
		cfg.LengthPreference = flags.lengthPref
	}
	if cmd.Flags().Changed("target-length") {
		cfg.TargetLength = flags.targetLen
	}
	if cmd.Flags().Changed("scale-mode") {
		cfg.ScaleMode = flags.scaleMode
	}
	if cmd.Flags().Changed("clamp") {
		cfg.ClampOutOfDomain = flags.clamp
	}
	if cmd.Flags().Changed("workers") {
		cfg.WorkerCount = flags.workers
	}
	return cfg.Validate()
}

// parseWeights parses "difficulty,traffic,apps,length".
func parseWeights(s string) (scoring.Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return scoring.Weights{}, fmt.Errorf("%w: --weights needs 4 comma-separated values, got %d", config.ErrInvalidConfig, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return scoring.Weights{}, fmt.Errorf("%w: bad weight %q", config.ErrInvalidConfig, p)
		}
		vals[i] = v
	}
	return scoring.Weights{Difficulty: vals[0], Traffic: vals[1], AppCount: vals[2], Length: vals[3]}, nil
}

func buildService(cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("pipeline")),
		app.WithWeights(cfg.Weights()),
		app.WithCharacterBudget(cfg.CharacterBudget),
		app.WithMaxCount(cfg.MaxCount),
		app.WithSeparatorCost(cfg.SeparatorCost),
		app.WithLengthPreference(normalize.LengthPreference(cfg.LengthPreference), cfg.TargetLength),
		app.WithScaleMode(normalize.ScaleMode(cfg.ScaleMode), cfg.AppsBase, cfg.LengthBase),
		app.WithClamping(cfg.ClampOutOfDomain),
		app.WithWorkerCount(cfg.WorkerCount),
	)
}

func readInput(path string) ([]model.KeywordRecord, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return tabular.ReadRecords(r)
}

func writeOutput(path string, records []model.ScoredRecord) error {
	if path == "" || path == "-" {
		return tabular.WriteRecords(os.Stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := tabular.WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// finish prints the run metrics when --stats is set.
func finish() error {
	if !showStats {
		return nil
	}
	summary, err := metrics.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, summary)
	return nil
}
