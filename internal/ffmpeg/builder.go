// Package ffmpeg builds and executes ffmpeg commands for single conversion
// jobs. User pass-through arguments are forwarded verbatim between the
// input and output positions.
package ffmpeg

import (
	"github.com/swareham/ffmpegd/internal/config"
)

// Build constructs the complete argument vector for one conversion,
// including the binary name at position 0:
//
//	<ffmpeg> -hide_banner -nostdin -y -loglevel <level> -i <input> <pass-through...> <output>
//
// -y is always set: a batch tool must never block on an interactive
// overwrite prompt. Pass-through arguments are kept in user order and are
// not inspected here; forbidden arguments are rejected during configuration.
func Build(cfg *config.Config, inputPath, outputPath string) []string {
	args := make([]string, 0, len(cfg.PassThrough)+9)
	args = append(args, cfg.FFmpegPath, "-hide_banner", "-nostdin", "-y")

	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	args = append(args, "-i", inputPath)
	args = append(args, cfg.PassThrough...)
	args = append(args, outputPath)
	return args
}
