package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/swareham/ffmpegd/internal/config"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr   string
	ExitCode int // 0 on success, ffmpeg's exit status on failure, -1 if it never ran.
	Err      error
}

// Execute builds and runs the ffmpeg command for one job, blocking until the
// subprocess exits. When verbose, stderr is tee'd to os.Stderr in real time;
// otherwise it is captured silently for failure reporting.
func Execute(ctx context.Context, cfg *config.Config, inputPath, outputPath string) ExecResult {
	args := Build(cfg, inputPath, outputPath)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	code := 0
	if err != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}

	return ExecResult{
		Stderr:   stderrBuf.String(),
		ExitCode: code,
		Err:      err,
	}
}
