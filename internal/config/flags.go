package config

// This file implements CLI argument parsing. Unlike a plain flag.FlagSet,
// the parser must keep unrecognized arguments: everything ffmpegd does not
// claim is forwarded verbatim to ffmpeg. ffmpegd-specific options therefore
// use the --long form (plus four short aliases ffmpeg does not use), while
// ffmpeg's own single-dash options fall through untouched.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseArgs parses args (os.Args[1:]) into cfg, collecting unrecognized
// arguments into cfg.PassThrough in order. On --help or --version it prints
// and exits. Defaults for the input and output directories are resolved
// here: input falls back to the current working directory, output to
// "{input}-converted" alongside it.
func ParseArgs(cfg *Config, args []string, version string) error {
	for i := 0; i < len(args); i++ {
		name, inlineVal, hasInline := splitFlag(args[i])

		// takeValue consumes the flag's value from either the =form or the
		// next argument.
		takeValue := func() (string, error) {
			if hasInline {
				return inlineVal, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "--input-directory", "-i":
			cfg.InputDir, err = takeValue()
		case "--output-directory", "-o":
			cfg.OutputDir, err = takeValue()
		case "--extension", "-e":
			cfg.Extension, err = takeValue()
		case "--regex":
			cfg.RegexPattern, err = takeValue()
		case "--log":
			cfg.LogFile, err = takeValue()
		case "--history":
			cfg.HistoryPath, err = takeValue()
		case "--ffmpeg":
			cfg.FFmpegPath, err = takeValue()
		case "--dry-run", "-d":
			cfg.DryRun = true
		case "--fail-fast":
			cfg.FailFast = true
		case "--skip-existing":
			cfg.SkipExisting = true
		case "--watch":
			cfg.Watch = true
		case "--check":
			cfg.CheckOnly = true
		case "--verbose":
			cfg.Verbose = true
		case "--color":
			cfg.ColorMode = ColorAlways
		case "--no-color":
			cfg.ColorMode = ColorNever
		case "--version":
			fmt.Fprintln(os.Stdout, "ffmpegd v"+version)
			os.Exit(0)
		case "--help", "-h":
			printUsage(version)
			os.Exit(0)
		default:
			cfg.PassThrough = append(cfg.PassThrough, args[i])
		}
		if err != nil {
			return err
		}
	}

	return resolveDirs(cfg)
}

// resolveDirs applies directory defaults and normalization after parsing.
func resolveDirs(cfg *Config) error {
	if cfg.InputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		cfg.InputDir = wd
	}
	cfg.InputDir = NormalizeDirArg(cfg.InputDir)

	if cfg.OutputDir == "" {
		parent := filepath.Dir(cfg.InputDir)
		cfg.OutputDir = filepath.Join(parent, filepath.Base(cfg.InputDir)+"-converted")
	}
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// splitFlag separates "--flag=value" into its parts. Short flags and plain
// tokens come back unchanged with hasInline false.
func splitFlag(arg string) (name, value string, hasInline bool) {
	if strings.HasPrefix(arg, "--") {
		if idx := strings.Index(arg, "="); idx > 0 {
			return arg[:idx], arg[idx+1:], true
		}
	}
	return arg, "", false
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "ffmpegd v" + version + " — batch convert a directory tree with ffmpeg"},
		{"", ""},
		{"  ffmpegd [OPTIONS] [ffmpeg args...]", ""},
		{"", ""},
		{"Selection", ""},
		{"  -i, --input-directory <dir>", "Input directory (default: current directory)"},
		{"  -o, --output-directory <dir>", "Output directory (default: {input}-converted)"},
		{"  -e, --extension <ext>", "Output extension; also selects the input class"},
		{"  --regex <pattern>", "Match input base names by regex instead of class"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Print planned actions without side effects"},
		{"  --fail-fast", "Stop after the first failed conversion"},
		{"  --skip-existing", "Skip jobs whose output file already exists"},
		{"  --watch", "Keep converting new files after the batch"},
		{"  --history <path>", "Append per-job records to a SQLite database"},
		{"  --ffmpeg <path>", "ffmpeg binary to invoke (default: ffmpeg)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  --verbose", "Verbose output (includes live ffmpeg stderr)"},
		{"", ""},
		{"Utility", ""},
		{"  --log <path>", "Append logs to file"},
		{"  --check", "ffmpeg diagnostics and exit"},
		{"  --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"", "All other arguments are passed through to ffmpeg unchanged,"},
		{"", "placed after -i <input> and before the output path. Reserved:"},
		{"", "-i, and flags that must precede -i (-ss, -sseof, -itsoffset, ...)."},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
