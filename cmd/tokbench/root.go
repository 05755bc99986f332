package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/core"
	"github.com/ib-77/tokbench/pkg/bench/harness"
	"github.com/ib-77/tokbench/pkg/bench/parallel"
	"github.com/ib-77/tokbench/pkg/bench/pipeline"
	"github.com/ib-77/tokbench/pkg/bench/sequential"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/bench/work"
	"github.com/ib-77/tokbench/pkg/config"
	"github.com/ib-77/tokbench/pkg/logger"
)

const version = "0.1.0"

type flags struct {
	cfgFile    string
	target     string
	variants   []string
	ignoreCase bool
	workers    int
	buffer     int
	producers  int
	policy     string
	iterations int
	strategies []string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "tokbench [files...]",
		Short: "Benchmark sequential, parallel and pipelined word counting",
		Long: `tokbench counts how often a target word occurs in each input file, once per
strategy (sequential, task parallelism, pipeline), and prints the counts
followed by the elapsed time of each strategy.

Without file arguments the files listed in the configuration are used.`,
		Example: `  tokbench
  tokbench -t cat a.txt b.txt
  tokbench --iterations 20 --strategies parallel,pipeline --workers 4 *.txt
  tokbench --config bench.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.cfgFile, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&f.target, "target", "t", "", "word to count (default \"the\")")
	fs.StringSliceVar(&f.variants, "variants", nil, "other spellings that count as the target (default: capitalised target)")
	fs.BoolVar(&f.ignoreCase, "ignore-case", false, "match the target and variants case-insensitively")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel worker count (default: number of CPUs)")
	fs.IntVar(&f.buffer, "buffer", 0, "pipeline channel capacity (0 = unbuffered)")
	fs.IntVar(&f.producers, "producers", 1, "pipeline producer workers")
	fs.StringVar(&f.policy, "policy", "", "parallel failure policy: wait-all or fail-fast")
	fs.IntVarP(&f.iterations, "iterations", "n", 1, "runs per strategy")
	fs.StringSliceVarP(&f.strategies, "strategies", "s", nil, "strategies to run, in order: sequential,parallel,pipeline")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console or json")

	return cmd
}

// resolveConfig layers flags that were set explicitly over the config file
// over the defaults.
func resolveConfig(cmd *cobra.Command, f *flags, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.cfgFile != "" {
		loaded, err := config.Load(f.cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("target") {
		cfg.Target = f.target
	}
	if changed("variants") {
		v := append([]string{}, f.variants...)
		cfg.Variants = &v
	}
	if changed("ignore-case") {
		cfg.IgnoreCase = f.ignoreCase
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("buffer") {
		cfg.Buffer = f.buffer
	}
	if changed("producers") {
		cfg.Producers = f.producers
	}
	if changed("policy") {
		cfg.Policy = f.policy
	}
	if changed("iterations") {
		cfg.Iterations = f.iterations
	}
	if changed("strategies") {
		cfg.Strategies = f.strategies
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if len(args) > 0 {
		cfg.Sources = args
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, cfg config.Config) error {
	logger.Init(cfg.Logger())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = core.WithProcessOptions(ctx, cfg.FailurePolicy())
	ctx = core.WithWorkerOptions(ctx, cfg.Workers)
	ctx = core.WithBufferOptions(ctx, cfg.Buffer)
	ctx = core.WithProducerOptions(ctx, cfg.Producers)

	counter := work.NewCounter(work.NewMatcher(cfg.Target, cfg.VariantList()...).WithIgnoreCase(cfg.IgnoreCase))
	matcher := counter.Matcher()

	runners, err := buildRunners(cfg.Strategies, counter.Unit())
	if err != nil {
		return err
	}

	logger.Info("benchmark start", zap.String("target", matcher.Target()), zap.Strings("variants", matcher.Variants()),
		zap.Strings("sources", cfg.Sources), zap.Strings("strategies", cfg.Strategies),
		zap.Int("iterations", cfg.Iterations))

	h := harness.New(harness.NewPrinter(cmd.OutOrStdout(), matcher.Target()), runners,
		harness.WithIterations(cfg.Iterations))
	_, err = h.Run(ctx, source.FromPaths(cfg.Sources...))
	return err
}

// buildRunners creates one runner per strategy name. Tuning comes from the
// context the runners are called with.
func buildRunners(strategies []string, unit work.Unit) ([]bench.Runner, error) {
	runners := make([]bench.Runner, 0, len(strategies))
	for _, s := range strategies {
		switch s {
		case config.StrategySequential:
			runners = append(runners, sequential.New(unit))
		case config.StrategyParallel:
			runners = append(runners, parallel.New(unit))
		case config.StrategyPipeline:
			runners = append(runners, pipeline.New(unit,
				pipeline.WithOnReceive(func(wr bench.WorkResult) {
					logger.Debug("pipeline received", zap.Int("index", wr.SourceIndex), zap.Int("count", wr.Value))
				})))
		default:
			return nil, fmt.Errorf("unknown strategy %q", s)
		}
	}
	return runners, nil
}
