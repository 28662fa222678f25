package pipeline

// RunStats tracks aggregate counters and byte totals across a run.
type RunStats struct {
	Total            int // Jobs seen (batch + watch).
	Converted        int
	Simulated        int // Dry-run jobs.
	Skipped          int // Existing outputs skipped via --skip-existing.
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs. Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
