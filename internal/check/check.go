// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for the ffmpeg binary.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/swareham/ffmpegd/internal/config"
)

// ErrFfmpegNotFound is returned by CheckDeps when the configured ffmpeg
// binary cannot be resolved.
var ErrFfmpegNotFound = errors.New("ffmpeg not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: reports whether the configured
// ffmpeg binary resolves and logs its version and configured extension
// classes. Informational only, it does not stop on failure. Returns false
// when ffmpeg is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	return checkFfmpeg(cfg, log)
}

// checkFfmpeg verifies the binary resolves and logs its version string.
func checkFfmpeg(cfg *config.Config, log Logger) bool {
	path, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		log.Error("%s not found", cfg.FFmpegPath)
		return false
	}
	cmd := exec.Command(path, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", path, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// CheckDeps is the pre-run validation: it verifies the configured ffmpeg
// binary is resolvable. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	return nil
}
