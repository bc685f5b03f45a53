package domain

// TimestampLayout is the zone-less ISO 8601 form the backend uses for job times.
const TimestampLayout = "2006-01-02T15:04:05.000000"

type JobState string

const (
	JobQueued     JobState = "queued"
	JobPending    JobState = "pending"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobError      JobState = "error"
)

// Terminal reports whether the state ends polling.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobError
}

type JobStatus struct {
	Status   JobState    `json:"status"`
	Progress int         `json:"progress"`
	Result   *Evaluation `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
	// Timestamps are kept as sent. The backend writes zone-less ISO 8601
	// ("2025-10-18T12:34:56.789012"), which time.Time does not decode.
	CreatedAt   string `json:"created_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type JobStats struct {
	Total      int `json:"total"`
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Error      int `json:"error"`
}
