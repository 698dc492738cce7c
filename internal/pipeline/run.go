package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-fit-evaluator/internal/scoring"
	"github.com/jonathan/jd-fit-evaluator/internal/stints"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

const defaultWorkers = 4

// Failure records one candidate that could not be scored.
type Failure struct {
	CandidateID string `json:"candidate_id"`
	Message     string `json:"message"`
}

// RunStats summarizes a completed (or interrupted) scoring run.
type RunStats struct {
	RunID       uuid.UUID     `json:"run_id"`
	Scored      int           `json:"scored"`
	Degraded    int           `json:"degraded"`
	Failed      []Failure     `json:"failed,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
	PerSecond   float64       `json:"per_second"`
	Interrupted bool          `json:"interrupted,omitempty"`
}

// Orchestrator drives normalization, extraction, and finalization over a
// candidate collection with a fixed-size worker pool. The job profile and
// weights are read-only for the duration of a run; the embedding cache under
// the extractor is the only shared mutable resource.
type Orchestrator struct {
	normalizer *stints.Normalizer
	extractor  *scoring.Extractor
	profile    *types.JobProfile
	weights    types.Weights
	sink       ResultSink
	workers    int
	log        *zap.Logger
}

// New creates an orchestrator. Weights fall back to the profile's embedded
// weights, then to the documented defaults. Profile or weight problems are
// run-level errors surfaced here, before any candidate is processed.
func New(normalizer *stints.Normalizer, extractor *scoring.Extractor, profile *types.JobProfile, weights *types.Weights, sink ResultSink, workers int, log *zap.Logger) (*Orchestrator, error) {
	if profile == nil {
		return nil, fmt.Errorf("orchestrator requires a job profile")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	w := types.DefaultWeights()
	if weights != nil {
		w = *weights
	} else if profile.Weights != nil {
		w = *profile.Weights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		normalizer: normalizer,
		extractor:  extractor,
		profile:    profile,
		weights:    w,
		sink:       sink,
		workers:    workers,
		log:        log,
	}, nil
}

// Run scores all candidates. Per-candidate failures are isolated: they are
// recorded in the stats and the batch continues. Cancelling the context
// stops dispatching new candidates; in-flight workers finish their current
// candidate, and results already written remain valid.
func (o *Orchestrator) Run(ctx context.Context, candidates []types.CandidateRecord) (RunStats, error) {
	start := time.Now()
	stats := RunStats{RunID: uuid.New()}

	o.log.Info("scoring run started",
		zap.Stringer("run_id", stats.RunID),
		zap.Int("candidates", len(candidates)),
		zap.Int("workers", o.workers))

	jobs := make(chan types.CandidateRecord)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, rec := range candidates {
			select {
			case jobs <- rec:
			case <-gCtx.Done():
				return nil
			}
		}
		return nil
	})

	for i := 0; i < o.workers; i++ {
		g.Go(func() error {
			for rec := range jobs {
				result, err := o.scoreOne(gCtx, rec)

				mu.Lock()
				if err != nil {
					stats.Failed = append(stats.Failed, Failure{CandidateID: rec.CandidateID, Message: err.Error()})
					mu.Unlock()
					o.log.Warn("candidate failed", zap.String("candidate", rec.CandidateID), zap.Error(err))
					continue
				}
				stats.Scored++
				if result.Degraded {
					stats.Degraded++
				}
				mu.Unlock()

				if werr := o.sink.Write(result); werr != nil {
					// A broken sink dooms the run: results are its only output.
					return fmt.Errorf("result sink failed: %w", werr)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Elapsed = time.Since(start)
	if stats.Elapsed > 0 {
		stats.PerSecond = float64(stats.Scored) / stats.Elapsed.Seconds()
	}
	if ctx.Err() != nil {
		stats.Interrupted = true
	}

	o.log.Info("scoring run finished",
		zap.Stringer("run_id", stats.RunID),
		zap.Int("scored", stats.Scored),
		zap.Int("failed", len(stats.Failed)),
		zap.Int("degraded", stats.Degraded),
		zap.Duration("elapsed", stats.Elapsed))

	if err != nil {
		return stats, err
	}
	return stats, ctx.Err()
}

// scoreOne processes a single candidate end-to-end. Panics from extraction
// are converted to per-candidate errors so one bad record cannot halt the
// batch.
func (o *Orchestrator) scoreOne(ctx context.Context, rec types.CandidateRecord) (result types.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	if verr := rec.Validate(); verr != nil {
		return types.ScoreResult{}, verr
	}

	candStints := o.normalizer.Normalize(rec)
	subs, ev := o.extractor.Extract(ctx, candStints, rec, o.profile)
	return scoring.Finalize(rec.CandidateID, subs, ev, o.weights), nil
}
