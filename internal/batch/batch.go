// Package batch implements SPEC_FULL.md §5's process-level parallelism:
// running N independent seeded simulations concurrently via a bounded
// worker pool, one goroutine per seed, with no state shared between
// workers. Each run is otherwise exactly the single-threaded
// GenerateWorld+StepOnce pipeline core implements; batch only fans that
// pipeline out and fans results back in. Grounded on the pack's
// golang.org/x/sync dependency (carried by Afromullet-TinkerRogue's
// go.mod, unused by any of that repo's own single-goroutine logic) via
// golang.org/x/sync/errgroup's bounded-concurrency idiom.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/iso-citysim/internal/autobuild"
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

// Job describes one independent run: generate a world from Seed under
// ProcGenConfig, then either advance it Days plain ticks or, if
// AutoBuild is non-nil, run the auto-build bot for Days days instead.
type Job struct {
	Seed          uint64
	Width, Height int
	ProcGenConfig procgen.Config
	SimConfig     simulate.Config
	Days          int
	AutoBuild     *autobuild.Config
}

// RunResult is one Job's outcome: the final world, its deterministic
// hash (for cross-run comparison), and — when AutoBuild was set — the
// bot's Report.
type RunResult struct {
	Seed      uint64
	World     *cityworld.World
	WorldHash uint64
	AutoBuild *autobuild.Report
	Err       error
}

// RunAll runs every job concurrently, capped at maxConcurrency
// simultaneous goroutines (0 or negative means unbounded). It returns one
// RunResult per job, in the same order as jobs, regardless of completion
// order. A single job's error does not cancel the others — RunAll only
// returns a non-nil error if ctx itself is cancelled; per-job failures
// are reported on that job's RunResult.Err.
func RunAll(ctx context.Context, jobs []Job, maxConcurrency int) ([]RunResult, error) {
	results := make([]RunResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = RunResult{Seed: job.Seed, Err: gctx.Err()}
				return nil
			}
			results[i] = runOne(job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// runOne executes a single job to completion. It never returns a Go
// error for a simulation outcome — only RunResult.Err is used, reserved
// for an invalid Job (e.g. zero dimensions).
func runOne(job Job) RunResult {
	if job.Width <= 0 || job.Height <= 0 {
		return RunResult{Seed: job.Seed, Err: cityworld.NewInvalidArgument("batch job width/height must be positive")}
	}

	w := procgen.Generate(job.Width, job.Height, job.Seed, job.ProcGenConfig)

	var report *autobuild.Report
	if job.AutoBuild != nil {
		r := autobuild.Run(w, job.SimConfig, *job.AutoBuild, job.Days)
		report = &r
	} else {
		st := simulate.NewState(w)
		for d := 0; d < job.Days; d++ {
			simulate.StepOnce(w, job.SimConfig, st)
		}
	}

	return RunResult{
		Seed:      job.Seed,
		World:     w,
		WorldHash: cityworld.HashWorld(w, true),
		AutoBuild: report,
	}
}
