package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/engine"
	"github.com/524D/multiplex/internal/logging"
	"github.com/524D/multiplex/internal/mzml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	outPrefix  string
	redisAddr  string
	massBinDa  float64
	statusAddr string
)

var quantifyCmd = &cobra.Command{
	Use:   "quantify <input.mzML>",
	Short: "Find and quantify labelled peptide multiplets in an mzML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuantify,
}

func init() {
	quantifyCmd.Flags().StringVar(&outPrefix, "out", "multiplex-out", "output file prefix")
	quantifyCmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the averagine ratio cache (empty: in-memory only)")
	quantifyCmd.Flags().Float64Var(&massBinDa, "mass-bin", 0.1, "averagine mass-bin width in Da, for cache quantization")
	quantifyCmd.Flags().Int("workers", 0, "worker pool size (0: GOMAXPROCS)")
	quantifyCmd.Flags().Bool("allow-missing-peaks", false, "allow isotope envelope peaks to be missing")
	quantifyCmd.Flags().Int("profile-samples", 11, "number of samples across a peak's m/z window for the profile-correlation check")
	quantifyCmd.Flags().StringVar(&statusAddr, "status-addr", "", "address to serve /status and /metrics on (empty: disabled)")
	_ = viper.BindPFlag("workers", quantifyCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("allow_missing_peaks", quantifyCmd.Flags().Lookup("allow-missing-peaks"))
	_ = viper.BindPFlag("profile_samples", quantifyCmd.Flags().Lookup("profile-samples"))
}

func buildLogger() (logging.Logger, func(), error) {
	level := viper.GetString("log_level")
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zl, err := zcfg.Build()
	if err != nil {
		return nil, func() {}, err
	}
	return logging.NewZapLogger(zl), func() { _ = zl.Sync() }, nil
}

func runQuantify(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	log, closeLog, err := buildLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer closeLog()

	s, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	s.Workers = viper.GetInt("workers")
	s.AllowMissingPeaks = viper.GetBool("allow_missing_peaks")

	cfg, warnings, err := buildConfig(s)
	if err != nil {
		return fmt.Errorf("building config: %w", err)
	}
	for _, w := range warnings {
		log.Warnf("config: %s", w)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	doc, err := mzml.Read(f)
	if err != nil {
		return fmt.Errorf("reading mzML: %w", err)
	}

	grid, err := doc.ToGrid()
	if err != nil {
		return fmt.Errorf("building spectrum grid: %w", err)
	}

	cache := averagine.Cache(averagine.NewMemCache())
	if redisAddr != "" {
		client, rerr := newRedisClient(redisAddr)
		if rerr != nil {
			log.Warnf("redis unavailable (%v), falling back to in-memory averagine cache", rerr)
		} else {
			cache = averagine.NewRedisCache(client, "multiplex:averagine:")
		}
	}
	model := averagine.NewModel(cache, massBinDa)

	opts := engine.Options{
		Workers:           s.Workers,
		AllowMissingPeaks: s.AllowMissingPeaks,
		ProfileSamples:    viper.GetInt("profile_samples"),
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	jm := newJobMetrics(prometheus.DefaultRegisterer)
	jm.start(inputPath)
	stopStatus := serveStatusInBackground(ctx, statusAddr, jm, func(err error) {
		log.Warnf("status server: %v", err)
	})
	defer stopStatus()

	result, err := engine.Run(ctx, grid, cfg, model, opts, log)
	jm.finish(len(result.Consensus), len(result.Features), err)
	if err != nil {
		return fmt.Errorf("running engine: %w", err)
	}
	for _, w := range result.Warnings {
		log.Warnf("config: %s", w)
	}

	log.Infof("found %d consensus features, %d per-peptide feature rows",
		len(result.Consensus), len(result.Features))

	if err := writeResults(outPrefix, result); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
