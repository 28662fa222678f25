package pipeline

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/swareham/ffmpegd/internal/classify"
	"github.com/swareham/ffmpegd/internal/config"
	"github.com/swareham/ffmpegd/internal/naming"
)

// Job is one planned conversion. It is a plain value with no identity
// beyond its paths, produced once and consumed once.
type Job struct {
	InputPath  string // Absolute path to the source file.
	RelPath    string // Path relative to the input root.
	OutputPath string // Mirrored path under the output root, extension swapped.
	OutputDir  string // Immediate parent of OutputPath.
}

// Planner turns discovered input files into an ordered sequence of Jobs.
type Planner struct {
	cfg        *config.Config
	classifier classify.Classifier
	warn       WarnFunc
}

// NewPlanner wires the walker, classifier, and output mapper together.
func NewPlanner(cfg *config.Config, classifier classify.Classifier, warn WarnFunc) *Planner {
	return &Planner{cfg: cfg, classifier: classifier, warn: warn}
}

// Jobs returns the lazy, ordered job sequence for the input tree. Jobs are
// yielded in the walker's lexical order. Nothing is deduplicated: when two
// inputs map to the same output path (e.g. "a.MP4" and "a.mp4" with target
// mp4), both jobs are emitted and the last one executed wins.
func (p *Planner) Jobs() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		for e := range Files(p.cfg.InputDir, p.classifier.Accepts, p.warn) {
			if !yield(p.jobFor(e)) {
				return
			}
		}
	}
}

// JobFor plans a single file that is already known to be accepted, used by
// watch mode for files appearing after the batch. The path must live under
// the input root.
func (p *Planner) JobFor(path string) (Job, error) {
	rel, err := filepath.Rel(p.cfg.InputDir, path)
	if err != nil {
		return Job{}, err
	}
	if rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Job{}, fmt.Errorf("%s is outside the input directory", path)
	}
	return p.jobFor(Entry{Path: path, Rel: rel}), nil
}

func (p *Planner) jobFor(e Entry) Job {
	outputPath, outputDir := naming.Map(e.Rel, p.cfg.Extension, p.cfg.OutputDir)
	return Job{
		InputPath:  e.Path,
		RelPath:    e.Rel,
		OutputPath: outputPath,
		OutputDir:  outputDir,
	}
}
