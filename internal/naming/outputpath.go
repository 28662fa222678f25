// Package naming computes output paths. The input tree's relative structure
// is mirrored under the output root with the file extension swapped for the
// target extension.
package naming

import (
	"path/filepath"
	"strings"
)

// Map returns the output file path and its parent directory for a path
// relative to the input root. Pure computation, no filesystem access.
//
// The final extension component is replaced by targetExt; intermediate
// directory segments and the base filename are preserved. Multi-dot names
// keep everything before the last dot ("archive.tar.gz" -> "archive.tar.mp4").
// Names without an extension (including bare dotfiles like ".config") get
// "." + targetExt appended rather than replaced.
func Map(rel, targetExt, outputRoot string) (outputPath, outputDir string) {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" || stem == "" {
		stem = base
	}

	outputPath = filepath.Join(outputRoot, filepath.Dir(rel), stem+"."+targetExt)
	outputDir = filepath.Dir(outputPath)
	return outputPath, outputDir
}
