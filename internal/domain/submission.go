package domain

import (
	"time"
)

// Submission is one student's delivered file for one task. FileName holds the
// name actually used on storage, which may differ from the uploaded name when
// a collision was resolved.
type Submission struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	StudentID   int64     `json:"student_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusUpdated   SubmissionStatus = "updated"
	SubmissionStatusRemoved   SubmissionStatus = "removed"
)

// StatusChange is an append-only audit fact: a task's status became Status at
// ChangedAt. Status is one of the SubmissionStatus labels for workflow-driven
// rows, or a free-form label for manual changes.
type StatusChange struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
