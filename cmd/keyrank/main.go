package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	showStats bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "keyrank",
		Short:         "Rank app-store keywords and pick the best set under a character budget",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $KEYRANK_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log verbosity: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&showStats, "stats", false, "print run metrics to stderr")

	root.AddCommand(selectCmd())
	root.AddCommand(scoreCmd())

	return root
}

// pipelineFlags are the tuning flags shared by score and select.
type pipelineFlags struct {
	input      string
	output     string
	weights    string
	lengthPref string
	targetLen  int
	scaleMode  string
	clamp      bool
	workers    int
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input metrics CSV (\"-\" for stdin)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "output CSV (\"-\" for stdout)")
	cmd.Flags().StringVar(&f.weights, "weights", "", "factor weights as difficulty,traffic,apps,length (e.g. 0.55,0.35,0.05,0.05)")
	cmd.Flags().StringVar(&f.lengthPref, "length-preference", "", "length orientation: shorter or target")
	cmd.Flags().IntVar(&f.targetLen, "target-length", 0, "ideal keyword length for --length-preference=target")
	cmd.Flags().StringVar(&f.scaleMode, "scale-mode", "", "normalization scale: observed or fixed")
	cmd.Flags().BoolVar(&f.clamp, "clamp", false, "clamp out-of-domain metrics instead of rejecting rows")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "scoring worker count")
	_ = cmd.MarkFlagRequired("input")
}

func selectCmd() *cobra.Command {
	var (
		flags    pipelineFlags
		budget   int
		maxCount int
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Score keywords and greedily fill the character budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, &flags, budget, maxCount)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&budget, "budget", 0, "total character budget, separators included (0 = from config)")
	cmd.Flags().IntVar(&maxCount, "max-count", 0, "maximum keywords to select (0 = from config)")
	return cmd
}

func scoreCmd() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score and order every keyword without applying selection constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}
