package task

import (
	"strings"
	"time"
)

const (
	MaxTitleLength       = 40
	MaxDescriptionLength = 500
)

type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"` // owner; never serialized
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"notblank,max=40"`
	Description string `json:"description" validate:"max=500"`
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// UpdateTaskRequest is a partial update: nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string   `json:"title" validate:"omitnil,notblank,max=40"`
	Description *string   `json:"description" validate:"omitnil,max=500"`
	Completed   *FlexBool `json:"completed"`
}

func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

// Patch is the store-level form of an update.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	UpdatedAt   time.Time
}

func (r UpdateTaskRequest) Patch(now time.Time) Patch {
	p := Patch{
		Title:       r.Title,
		Description: r.Description,
		UpdatedAt:   now,
	}
	if r.Completed != nil {
		c := bool(*r.Completed)
		p.Completed = &c
	}
	return p
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply returns t with the patch applied; used by stores that mutate in process.
func (p Patch) Apply(t Task) Task {
	if p.IsEmpty() {
		return t
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = p.UpdatedAt
	return t
}
