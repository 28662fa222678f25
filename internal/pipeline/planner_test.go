package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/swareham/ffmpegd/internal/classify"
	"github.com/swareham/ffmpegd/internal/config"
)

func videoPlanner(t *testing.T, inputDir, outputDir string) *Planner {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir
	cfg.Extension = "mp4"

	cls, err := classify.ByExtension(cfg.Extension)
	if err != nil {
		t.Fatalf("ByExtension: %v", err)
	}
	return NewPlanner(&cfg, cls, noWarn)
}

func planAll(p *Planner) []Job {
	var jobs []Job
	for j := range p.Jobs() {
		jobs = append(jobs, j)
	}
	return jobs
}

func TestPlanner_VideoClassSelection(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	touch(t, in, filepath.Join("a", "b.mov"))
	touch(t, in, filepath.Join("a", "c.txt"))
	touch(t, in, "d.mkv")

	jobs := planAll(videoPlanner(t, in, out))
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2: %v", len(jobs), jobs)
	}

	if jobs[0].OutputPath != filepath.Join(out, "a", "b.mp4") {
		t.Errorf("jobs[0].OutputPath = %q", jobs[0].OutputPath)
	}
	if jobs[0].OutputDir != filepath.Join(out, "a") {
		t.Errorf("jobs[0].OutputDir = %q", jobs[0].OutputDir)
	}
	if jobs[1].OutputPath != filepath.Join(out, "d.mp4") {
		t.Errorf("jobs[1].OutputPath = %q", jobs[1].OutputPath)
	}
	if jobs[1].OutputDir != out {
		t.Errorf("jobs[1].OutputDir = %q", jobs[1].OutputDir)
	}
}

func TestPlanner_EmptyInput(t *testing.T) {
	jobs := planAll(videoPlanner(t, t.TempDir(), t.TempDir()))
	if len(jobs) != 0 {
		t.Errorf("got %d jobs from empty input, want 0", len(jobs))
	}
}

func TestPlanner_CaseCollisionEmitsBothJobs(t *testing.T) {
	in := t.TempDir()
	touch(t, in, "a.MP4")
	touch(t, in, "a.mp4")

	out := t.TempDir()
	jobs := planAll(videoPlanner(t, in, out))
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2 (no deduplication)", len(jobs))
	}
	if jobs[0].OutputPath != jobs[1].OutputPath {
		t.Errorf("expected colliding output paths, got %q and %q",
			jobs[0].OutputPath, jobs[1].OutputPath)
	}
}

func TestPlanner_RegexRuleIgnoresTargetClass(t *testing.T) {
	in := t.TempDir()
	touch(t, in, "song.flac")
	touch(t, in, "song.wav")
	touch(t, in, "song.mp3")

	cfg := config.DefaultConfig()
	cfg.InputDir = in
	cfg.OutputDir = t.TempDir()
	cfg.Extension = "mp4" // video target, but the regex decides
	cfg.RegexPattern = `.*\.(flac|wav)$`

	cls, err := classify.ByRegex(cfg.RegexPattern)
	if err != nil {
		t.Fatalf("ByRegex: %v", err)
	}

	jobs := planAll(NewPlanner(&cfg, cls, noWarn))
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2: %v", len(jobs), jobs)
	}
	for _, j := range jobs {
		if filepath.Ext(j.OutputPath) != ".mp4" {
			t.Errorf("OutputPath %q should carry the target extension", j.OutputPath)
		}
	}
}

func TestPlanner_JobFor(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	path := touch(t, in, filepath.Join("sub", "clip.mov"))

	p := videoPlanner(t, in, out)
	job, err := p.JobFor(path)
	if err != nil {
		t.Fatalf("JobFor: %v", err)
	}
	if job.RelPath != filepath.Join("sub", "clip.mov") {
		t.Errorf("RelPath = %q", job.RelPath)
	}
	if job.OutputPath != filepath.Join(out, "sub", "clip.mp4") {
		t.Errorf("OutputPath = %q", job.OutputPath)
	}
}

func TestPlanner_JobForOutsideRoot(t *testing.T) {
	p := videoPlanner(t, t.TempDir(), t.TempDir())
	if _, err := p.JobFor("/somewhere/else/clip.mov"); err == nil {
		t.Error("JobFor should reject paths outside the input root")
	}
}
