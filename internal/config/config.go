// Package config holds runtime configuration: defaults, CLI argument
// parsing with ffmpeg pass-through, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ErrUnsupportedArgument is returned when a pass-through argument is
// reserved by ffmpegd or would require positional placement before -i.
var ErrUnsupportedArgument = errors.New("unsupported pass-through argument")

// Pass-through arguments that cannot be forwarded: -i is overridden by
// --input-directory, the rest only work when placed before -i on the ffmpeg
// command line, a position ffmpegd owns.
var forbiddenPassThrough = map[string]string{
	"-i":               "input selection is controlled by --input-directory",
	"-ss":              "must be placed before -i",
	"-sseof":           "must be placed before -i",
	"-itsoffset":       "must be placed before -i",
	"-seek_timestamp":  "must be placed before -i",
	"-accurate_seek":   "must be placed before -i",
	"-noaccurate_seek": "must be placed before -i",
	"-stream_loop":     "must be placed before -i",
	"-re":              "must be placed before -i",
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseArgs] before being passed (by pointer) to packages
// that need it; read-only for the rest of the run.
type Config struct {
	// Paths.
	InputDir  string // Default: current working directory.
	OutputDir string // Default: "{InputDir}-converted".

	// Matching.
	Extension    string // Target output extension, without dot. Required.
	RegexPattern string // When set, regex matching replaces extension matching.

	// Arguments forwarded verbatim to ffmpeg between -i <input> and <output>.
	PassThrough []string

	// Behavior flags.
	DryRun       bool
	FailFast     bool // Default: false (continue on per-file failure).
	SkipExisting bool // Skip jobs whose output file already exists.
	Watch        bool // Keep converting new files after the batch.

	// Conversion history (optional SQLite sink).
	HistoryPath string

	// ffmpeg invocation.
	FFmpegPath string // Default: "ffmpeg" (resolved via PATH).

	// Watch mode tuning.
	WatchSettleDelay time.Duration // Wait for a new file to stop changing.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ParseArgs] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:       "ffmpeg",
		WatchSettleDelay: 2 * time.Second,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string. Without this, the derived default output directory would
// gain a bogus empty path segment.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks everything that can be checked without touching the
// filesystem: the required target extension, flag combinations, and the
// pass-through list. Configuration errors are fatal before any work begins.
func (c *Config) Validate() error {
	if c.CheckOnly {
		return nil
	}
	if c.Extension == "" {
		return errors.New("missing required --extension")
	}
	if strings.HasPrefix(c.Extension, ".") {
		c.Extension = strings.TrimPrefix(c.Extension, ".")
	}
	if c.DryRun && c.Watch {
		return errors.New("--watch cannot be combined with --dry-run")
	}
	return c.validatePassThrough()
}

func (c *Config) validatePassThrough() error {
	for _, arg := range c.PassThrough {
		if reason, ok := forbiddenPassThrough[arg]; ok {
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedArgument, arg, reason)
		}
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or
// equal to) the resolved input directory. This prevents the run from
// discovering its own output files. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
