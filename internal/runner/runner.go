// Package runner runs crack requests for the outer surfaces, filling unset
// search settings from configuration and journalling every run.
package runner

import (
	"context"
	"time"

	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/logging"
	"github.com/RowanDark/monocrack/internal/observability/metrics"
)

// Runner executes crack requests. The zero value journals nothing and applies
// no defaults.
type Runner struct {
	// Defaults fills the settings a request leaves unset.
	Defaults crack.Request
	// Timeout bounds a single crack when positive.
	Timeout time.Duration
	Logger  *logging.EventLogger
}

// Run cracks req and returns the result with the run identifier used in the
// journal.
func (r *Runner) Run(ctx context.Context, req crack.Request) (crack.Result, string, error) {
	req = WithDefaults(req, r.Defaults)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.Discard("runner")
	}

	runID := logging.NewRunID()
	_ = logger.CrackStarted(runID, req)
	done := metrics.CrackStarted(req.Cipher)
	start := time.Now()

	observer := crack.MultiObserver(
		logging.ProgressObserver{Logger: logger, RunID: runID},
		crack.ObserverFunc(func(crack.Progress) { metrics.RecordImprovement() }),
	)
	res, err := crack.Run(ctx, req, observer)

	done(string(res.Metric), res.Score, err)
	_ = logger.CrackFinished(runID, res, time.Since(start), err)
	return res, runID, err
}

// WithDefaults fills the fields req leaves unset from defaults. The
// ciphertext is never defaulted. An explicit seed, zero included, is kept.
func WithDefaults(req, defaults crack.Request) crack.Request {
	if req.Cipher == "" {
		req.Cipher = defaults.Cipher
	}
	if req.Language == "" {
		req.Language = defaults.Language
	}
	if req.Metric == "" {
		req.Metric = defaults.Metric
	}
	if req.Restarts == 0 {
		req.Restarts = defaults.Restarts
	}
	if req.Iterations == 0 {
		req.Iterations = defaults.Iterations
	}
	if req.Frontier == 0 {
		req.Frontier = defaults.Frontier
	}
	if req.Workers == 0 {
		req.Workers = defaults.Workers
	}
	if req.Seed == nil {
		req.Seed = defaults.Seed
	}
	if req.NgramOrder == 0 {
		req.NgramOrder = defaults.NgramOrder
	}
	return req
}
