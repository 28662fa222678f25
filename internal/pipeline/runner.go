// Package pipeline orchestrates file discovery, conversion planning,
// sequential job execution, and batch summary reporting.
package pipeline

import (
	"context"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swareham/ffmpegd/internal/config"
	"github.com/swareham/ffmpegd/internal/display"
	"github.com/swareham/ffmpegd/internal/ffmpeg"
	"github.com/swareham/ffmpegd/internal/history"
	"github.com/swareham/ffmpegd/internal/logging"
)

// Runner executes planned jobs one at a time, strictly in plan order. Jobs
// share no state beyond the counters and the set of directories already
// ensured, so execution stays a simple sequential loop.
type Runner struct {
	cfg   *config.Config
	log   *logging.Logger
	hist  *history.Store // nil when --history is not set
	runID string

	// Directories created (or, in dry-run, reported as created) so far.
	// Keeps MkdirAll calls and duplicate "mkdir -p" dry-run lines away.
	ensuredDirs map[string]bool

	stats RunStats
}

// NewRunner builds a Runner. hist may be nil to disable history records.
func NewRunner(cfg *config.Config, log *logging.Logger, hist *history.Store) *Runner {
	return &Runner{
		cfg:         cfg,
		log:         log,
		hist:        hist,
		runID:       uuid.NewString(),
		ensuredDirs: make(map[string]bool),
	}
}

// Stats returns the counters accumulated so far.
func (r *Runner) Stats() *RunStats { return &r.stats }

// RunBatch consumes the job sequence sequentially. A failed job does not
// stop the batch unless --fail-fast is set; context cancellation stops
// between jobs, never mid-subprocess.
func (r *Runner) RunBatch(ctx context.Context, jobs iter.Seq[Job]) {
	for job := range jobs {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}
		r.Process(ctx, job)
		if r.cfg.FailFast && r.stats.Failed > 0 {
			r.log.Warn("Stopping after first failure (--fail-fast)")
			break
		}
	}
}

// Process handles one job: skip-existing check, directory creation, then
// the blocking ffmpeg invocation (or the dry-run report).
func (r *Runner) Process(ctx context.Context, job Job) {
	r.stats.Total++
	r.log.Info("[%d] %s", r.stats.Total, job.RelPath)

	if r.cfg.SkipExisting {
		if _, err := os.Stat(job.OutputPath); err == nil {
			r.log.Warn("Skip (exists): %s", job.OutputPath)
			r.stats.Skipped++
			return
		}
	}

	if r.cfg.DryRun {
		r.simulate(job)
		return
	}

	if !r.ensuredDirs[job.OutputDir] {
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			r.log.Error("Cannot create output directory: %v", err)
			r.stats.Failed++
			r.record(job, "failed", -1, err.Error(), 0)
			return
		}
		r.ensuredDirs[job.OutputDir] = true
	}

	start := time.Now()
	res := ffmpeg.Execute(ctx, r.cfg, job.InputPath, job.OutputPath)
	elapsed := time.Since(start)

	if res.Err != nil {
		// Remove the partial output so a later run does not mistake it
		// for a finished conversion.
		os.Remove(job.OutputPath)

		if ctx.Err() != nil {
			r.log.Warn("Interrupted: %s", job.RelPath)
		} else {
			r.log.Error("ffmpeg failed (exit %d): %s", res.ExitCode, job.RelPath)
			r.logStderrTail(res.Stderr)
		}
		r.stats.Failed++
		r.record(job, "failed", res.ExitCode, truncate(res.Stderr, 4096), elapsed)
		return
	}

	var inSize, outSize int64
	if fi, err := os.Stat(job.InputPath); err == nil {
		inSize = fi.Size()
	}
	if fi, err := os.Stat(job.OutputPath); err == nil {
		outSize = fi.Size()
	}
	r.stats.TotalInputBytes += inSize
	r.stats.TotalOutputBytes += outSize
	r.stats.Converted++

	if inSize > 0 {
		r.log.Success("Converted in %ds (%d%% of original)",
			int(elapsed.Seconds()), outSize*100/inSize)
	} else {
		r.log.Success("Converted in %ds", int(elapsed.Seconds()))
	}
	r.record(job, "success", 0, "", elapsed)
}

// simulate reports the planned actions for one job without touching the
// filesystem. A directory reported as created once is assumed to exist for
// the rest of the dry run, so deeper siblings don't re-report it.
func (r *Runner) simulate(job Job) {
	if !r.ensuredDirs[job.OutputDir] {
		if _, err := os.Stat(job.OutputDir); err != nil {
			r.log.Info("mkdir -p %s", job.OutputDir)
		}
		r.ensuredDirs[job.OutputDir] = true
	}
	args := ffmpeg.Build(r.cfg, job.InputPath, job.OutputPath)
	r.log.Info("%s", display.FormatCommand(args))
	r.stats.Simulated++
}

// record appends a history row when a history store is configured.
func (r *Runner) record(job Job, status string, exitCode int, errMsg string, elapsed time.Duration) {
	if r.hist == nil {
		return
	}
	err := r.hist.Append(&history.Record{
		RunID:        r.runID,
		InputPath:    job.InputPath,
		OutputPath:   job.OutputPath,
		Status:       status,
		ExitCode:     exitCode,
		ErrorMessage: errMsg,
		DurationMs:   elapsed.Milliseconds(),
	})
	if err != nil {
		r.log.Warn("history: %v", err)
	}
}

// LogSummary prints the final counters. Called once after the batch (and,
// in watch mode, after the watcher stops).
func (r *Runner) LogSummary() {
	s := &r.stats
	r.log.Info("==============================")
	if r.cfg.DryRun {
		r.log.Info("Done: %d simulated, %d skipped, %d failed", s.Simulated, s.Skipped, s.Failed)
		r.log.Info("  Dry run: no directories created, no conversions started")
		return
	}

	r.log.Info("Done: %d converted, %d skipped, %d failed", s.Converted, s.Skipped, s.Failed)
	saved := s.SpaceSaved()
	if s.Converted == 0 {
		return
	}
	if saved >= 0 {
		r.log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes))
	} else {
		r.log.Warn("  Total space saved: -%s (overall output is larger)",
			display.FormatBytes(-saved))
	}
}

func (r *Runner) logStderrTail(stderr string) {
	if stderr == "" {
		return
	}
	r.log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		r.log.Error("  %s", l)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
