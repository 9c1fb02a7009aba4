package workflow

import (
	"time"

	"ytwhisper/internal/fetch"
)

// Summary reports what a run did.
type Summary struct {
	RunID    string
	URLs     int
	Fetched  int
	Failures []fetch.Failure
	Written  []string
	Skipped  []string
	Duration time.Duration
}

// Processed is the number of fetched items that ended written or skipped.
func (s Summary) Processed() int {
	return len(s.Written) + len(s.Skipped)
}
