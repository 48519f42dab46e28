// Package engine orchestrates the full pipeline: mass-pattern
// enumeration, peak-pattern generation, the parallel filter sweep,
// clustering and quantitation assembly.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/cluster"
	"github.com/524D/multiplex/internal/filter"
	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/524D/multiplex/internal/logging"
	"github.com/524D/multiplex/internal/peakpattern"
	"github.com/524D/multiplex/internal/quant"
	"github.com/524D/multiplex/internal/specgrid"
	"go.uber.org/multierr"
)

// ErrEmptyInput is surfaced immediately when the spectrum grid carries no
// MS1 spectra; it is the same error value as specgrid.ErrEmptyInput, so
// callers can match on either.
var ErrEmptyInput = specgrid.ErrEmptyInput

// Workers bounds the number of PeakPatterns processed concurrently. Zero
// (the default) uses runtime.GOMAXPROCS(0).
type Options struct {
	Workers           int
	AllowMissingPeaks bool
	ProfileSamples    int
}

// Result is the output of one engine run: a consensus map and per-peptide
// feature map, both sorted by (rt, mz), plus any non-fatal warnings
// surfaced during config validation.
type Result struct {
	Consensus quant.ConsensusMap
	Features  quant.FeatureMap
	Warnings  []string
}

// Run executes the full pipeline against grid under cfg. The spectrum
// grid is read-only throughout: every PeakPattern's filter sweep runs in
// its own goroutine against the same Grid value with no locking.
func Run(ctx context.Context, grid *specgrid.Grid, cfg *labelconfig.Config, model *averagine.Model, opts Options, log logging.Logger) (Result, error) {
	if log == nil {
		log = logging.Nop{}
	}
	if grid == nil || len(grid.Spectra) == 0 {
		return Result{}, ErrEmptyInput
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return Result{}, err
	}

	massPatterns, err := labelconfig.GenerateMassPatterns(cfg)
	if err != nil {
		return Result{}, err
	}

	patterns := peakpattern.Generate(cfg.ChargeMin, cfg.ChargeMax, cfg.IsotopesMax, massPatterns)

	filterCfg := filter.Config{
		MzTolerance:         cfg.MzTolerance,
		MzUnit:              cfg.MzUnit,
		IntensityCutoff:     cfg.IntensityCutoff,
		PeptideSimilarity:   cfg.PeptideSimilarity,
		AveragineSimilarity: cfg.AveragineSimilarity,
		AllowMissingPeaks:   opts.AllowMissingPeaks,
		IsotopesMin:         cfg.IsotopesMin,
		ProfileSamples:      opts.ProfileSamples,
	}
	clusterCfg := cluster.Config{
		RTTypical:   cfg.RTTypical,
		RTMin:       cfg.RTMin,
		MzTolerance: cfg.MzTolerance,
		MzUnit:      cfg.MzUnit,
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type patternOut struct {
		peaks []filter.ResultPeak
		raws  []filter.ResultRaw
	}

	outs := make([]patternOut, len(patterns))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var runErr error
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, p := range patterns {
		select {
		case <-cctx.Done():
			mu.Lock()
			runErr = multierr.Append(runErr, cctx.Err())
			mu.Unlock()
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p peakpattern.PeakPattern) {
			defer wg.Done()
			defer func() { <-sem }()
			// specgrid.ErrPrecondition is the sole error class allowed to
			// panic; a panicking pattern task aborts the whole run rather
			// than being absorbed like NoSuccessor/NumericError.
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("pattern %d: %v", p.ID, r)
					}
					mu.Lock()
					runErr = multierr.Append(runErr, fmt.Errorf("pattern %d: %w", p.ID, err))
					mu.Unlock()
					cancel()
				}
			}()

			select {
			case <-cctx.Done():
				return
			default:
			}

			peaks, raws := filter.Sweep(p, grid, model, filterCfg, log)
			outs[i] = patternOut{peaks: peaks, raws: raws}
		}(i, p)
	}
	wg.Wait()

	if runErr != nil {
		return Result{}, runErr
	}

	var allPeaks []filter.ResultPeak
	var allRaws []filter.ResultRaw
	for _, o := range outs {
		allPeaks = append(allPeaks, o.peaks...)
		allRaws = append(allRaws, o.raws...)
	}

	clusters := cluster.Cluster2D(allPeaks, clusterCfg)
	consensus, features := quant.Assemble(allPeaks, allRaws, clusters)

	sort.Slice(consensus, func(i, j int) bool {
		if consensus[i].RT != consensus[j].RT {
			return consensus[i].RT < consensus[j].RT
		}
		if consensus[i].Mz != consensus[j].Mz {
			return consensus[i].Mz < consensus[j].Mz
		}
		if consensus[i].PatternID != consensus[j].PatternID {
			return consensus[i].PatternID < consensus[j].PatternID
		}
		return consensus[i].ClusterID < consensus[j].ClusterID
	})
	sort.Slice(features, func(i, j int) bool {
		if features[i].RT != features[j].RT {
			return features[i].RT < features[j].RT
		}
		if features[i].Mz != features[j].Mz {
			return features[i].Mz < features[j].Mz
		}
		return features[i].ID < features[j].ID
	})

	return Result{Consensus: consensus, Features: features, Warnings: warnings}, nil
}
