package task

import (
	"time"

	"github.com/google/uuid"
)

// Now is the clock for task timestamps: UTC, millisecond precision, so every
// backend round-trips the same value.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewFromCreateRequest builds a task owned by ownerID from an already validated request.
func NewFromCreateRequest(ownerID string, req CreateTaskRequest, now time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
