package history

import "time"

// Status is the outcome recorded for one item.
type Status string

const (
	StatusFetched          Status = "fetched"
	StatusFetchFailed      Status = "fetch_failed"
	StatusSkipped          Status = "skipped"
	StatusWritten          Status = "written"
	StatusTranscribeFailed Status = "transcribe_failed"
	StatusWriteFailed      Status = "write_failed"
)

// Run is one invocation of the tool.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	URLCount   int
	Model      string
	Format     string
	OutputDir  string
	Error      string
}

// Item is one recorded outcome.
type Item struct {
	ID         int64
	RunID      string
	URL        string
	VideoID    string
	Title      string
	Status     Status
	OutputPath string
	Error      string
	RecordedAt time.Time
}
