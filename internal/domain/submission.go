package domain

import (
	"encoding/json"
	"errors"
)

var ErrAmbiguousSubmission = errors.New("submission response has neither cache_hit nor job_id")

// SubmissionResult is the reply to an upload: either a cached evaluation
// returned synchronously, or the id of an asynchronous job to poll.
type SubmissionResult struct {
	CacheHit     bool
	CacheMessage string
	Evaluation   *Evaluation

	JobID   string
	Status  JobState
	Message string
}

func (r *SubmissionResult) IsCacheHit() bool {
	return r.CacheHit && r.Evaluation != nil
}

type submissionWire struct {
	Evaluation
	CacheHit     bool     `json:"cache_hit"`
	CacheMessage string   `json:"mensaje_cache,omitempty"`
	JobID        string   `json:"job_id,omitempty"`
	Status       JobState `json:"status,omitempty"`
	Message      string   `json:"message,omitempty"`
}

func (r *SubmissionResult) UnmarshalJSON(data []byte) error {
	var w submissionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = SubmissionResult{}
	switch {
	case w.CacheHit:
		ev := w.Evaluation
		r.CacheHit = true
		r.CacheMessage = w.CacheMessage
		r.Evaluation = &ev
	case w.JobID != "":
		r.JobID = w.JobID
		r.Status = w.Status
		r.Message = w.Message
	default:
		return ErrAmbiguousSubmission
	}
	return nil
}

func (r SubmissionResult) MarshalJSON() ([]byte, error) {
	w := submissionWire{
		CacheHit:     r.CacheHit,
		CacheMessage: r.CacheMessage,
		JobID:        r.JobID,
		Status:       r.Status,
		Message:      r.Message,
	}
	if r.Evaluation != nil {
		w.Evaluation = *r.Evaluation
	}
	return json.Marshal(w)
}
