package pipeline

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Entry is one discovered input file.
type Entry struct {
	Path string // Absolute (root-joined) path.
	Rel  string // Path relative to the input root.
}

// WarnFunc is called for entries that are skipped because they cannot be
// read. Discovery errors are never fatal.
type WarnFunc func(path string, err error)

// Files walks root and yields every regular file accepted by accept, in
// deterministic lexical order (filepath.WalkDir guarantees ordered
// traversal). The sequence is lazy and meant for a single consumption.
//
// Unreadable entries and broken symlinks are reported through warn and
// skipped. Symlinks to regular files are followed; symlinks to directories
// are not (symlink loop protection is a documented non-goal). Hidden files
// and directories receive no special treatment: whether a dotfile converts
// is purely the classifier's decision.
func Files(root string, accept func(string) bool, warn WarnFunc) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				warn(path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				if d.Type()&fs.ModeSymlink == 0 {
					return nil // sockets, fifos, devices
				}
				fi, statErr := os.Stat(path)
				if statErr != nil {
					warn(path, statErr)
					return nil
				}
				if !fi.Mode().IsRegular() {
					return nil
				}
			}
			if !accept(path) {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				warn(path, relErr)
				return nil
			}
			if !yield(Entry{Path: path, Rel: rel}) {
				return fs.SkipAll
			}
			return nil
		})
	}
}
