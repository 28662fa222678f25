package history

import (
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openStore(t)

	recs := []Record{
		{RunID: "run-1", InputPath: "/in/a.mov", OutputPath: "/out/a.mp4", Status: "success", DurationMs: 1200},
		{RunID: "run-1", InputPath: "/in/b.mov", OutputPath: "/out/b.mp4", Status: "failed", ExitCode: 1, ErrorMessage: "boom"},
	}
	for i := range recs {
		if err := s.Append(&recs[i]); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if recs[i].ID == 0 {
			t.Error("ID should be set after insert")
		}
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent: got %d records, want 2", len(got))
	}
	// Newest first.
	if got[0].InputPath != "/in/b.mov" {
		t.Errorf("Recent[0].InputPath = %q, want /in/b.mov", got[0].InputPath)
	}
	if got[0].Status != "failed" || got[0].ExitCode != 1 {
		t.Errorf("failed record not preserved: %+v", got[0])
	}
}

func TestForRun(t *testing.T) {
	s := openStore(t)

	for _, runID := range []string{"run-a", "run-b", "run-a"} {
		if err := s.Append(&Record{RunID: runID, Status: "success"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.ForRun("run-a")
	if err != nil {
		t.Fatalf("ForRun: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ForRun(run-a): got %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.RunID != "run-a" {
			t.Errorf("record from wrong run: %+v", r)
		}
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Append(&Record{RunID: "run-1", Status: "success"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records after reopen, want 1", len(got))
	}
}
