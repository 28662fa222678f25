// Command ffmpegd batch-converts a directory tree with ffmpeg and almost
// any combination of ffmpeg parameters.
//
// It recursively searches an input directory for files matching the target
// extension's class (or a --regex pattern), recreates the same directory
// structure under the output directory, and invokes ffmpeg once per file
// with the user's pass-through arguments. It parses arguments, validates
// configuration and paths, and either runs diagnostics (--check) or the
// conversion pipeline, optionally followed by watch mode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/swareham/ffmpegd/internal/check"
	"github.com/swareham/ffmpegd/internal/classify"
	"github.com/swareham/ffmpegd/internal/config"
	"github.com/swareham/ffmpegd/internal/display"
	"github.com/swareham/ffmpegd/internal/history"
	"github.com/swareham/ffmpegd/internal/logging"
	"github.com/swareham/ffmpegd/internal/pipeline"
	"github.com/swareham/ffmpegd/internal/watcher"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseArgs(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "ffmpegd: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ffmpegd: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ffmpegd: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Build the match rule. Both failure modes (unknown target extension,
	// malformed regex) are configuration errors, surfaced before any
	// filesystem work.
	classifier, err := buildClassifier(&cfg, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	// Resolve and validate paths: input must exist, output is created if
	// needed (never in dry-run), and output must not be inside input
	// (prevents recursive processing of fresh conversions).
	inputAbs, err := resolveDir(cfg.InputDir)
	if err != nil {
		log.Error("Input directory not found: %s", cfg.InputDir)
		return 1
	}
	cfg.InputDir = inputAbs

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
	}
	outputAbs, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return 1
	}
	cfg.OutputDir = outputAbs
	if resolved, err := filepath.EvalSymlinks(outputAbs); err == nil {
		outputAbs = resolved
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return 1
	}

	log.Info("=== ffmpegd v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("Target extension: %s", cfg.Extension)
	if cfg.DryRun {
		log.Warn("DRY RUN — no directories created, no conversions started")
	}
	log.Info("")

	// Fail fast if ffmpeg is unavailable. A dry run stays a pure
	// simulation and works without ffmpeg installed.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	var hist *history.Store
	if cfg.HistoryPath != "" && !cfg.DryRun {
		hist, err = history.Open(cfg.HistoryPath)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		defer hist.Close()
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// run stops between files without leaving partial output behind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Plan and execute (discover → map → convert).
	warn := func(path string, err error) {
		log.Warn("Skipping %s: %v", path, err)
	}
	planner := pipeline.NewPlanner(&cfg, classifier, warn)
	runner := pipeline.NewRunner(&cfg, log, hist)

	runner.RunBatch(ctx, planner.Jobs())

	if cfg.Watch && ctx.Err() == nil {
		if err := runWatch(ctx, &cfg, classifier, planner, runner, log); err != nil {
			log.Error("watch: %v", err)
		}
	}

	runner.LogSummary()

	if runner.Stats().Failed > 0 {
		return 1
	}
	return 0
}

// buildClassifier constructs the active match rule from the configuration.
func buildClassifier(cfg *config.Config, log *logging.Logger) (classify.Classifier, error) {
	if cfg.RegexPattern != "" {
		log.Debug(cfg.Verbose, "Matching base names against regex: %s", cfg.RegexPattern)
		return classify.ByRegex(cfg.RegexPattern)
	}
	c, err := classify.ByExtension(cfg.Extension)
	if err != nil {
		return nil, fmt.Errorf("%v (known: %v)", err, classify.KnownExtensions())
	}
	log.Debug(cfg.Verbose, "Matching %s files for target .%s", c.Class(), cfg.Extension)
	return c, nil
}

// runWatch blocks converting new files until the context is cancelled.
func runWatch(
	ctx context.Context,
	cfg *config.Config,
	classifier classify.Classifier,
	planner *pipeline.Planner,
	runner *pipeline.Runner,
	log *logging.Logger,
) error {
	w, err := watcher.New(cfg.InputDir, classifier.Accepts, cfg.WatchSettleDelay, log)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Info("Watching %s for new files (Ctrl-C to stop)", cfg.InputDir)
	return w.Run(ctx, func(path string) {
		job, err := planner.JobFor(path)
		if err != nil {
			log.Warn("Skipping %s: %v", path, err)
			return
		}
		runner.Process(ctx, job)
	})
}

// resolveDir returns the absolute path with symlinks resolved, for safe
// comparison of input vs output directory hierarchies. Fails if the
// directory does not exist.
func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return resolved, nil
}
