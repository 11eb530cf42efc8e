package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be at most 255 characters")
)

const maxTitleLen = 255

type Task struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"` // Ownership is implicit in the authenticated route
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateParams carries a partial update. A nil field leaves the column
// untouched; JSON null and an absent key are deliberately equivalent, since
// title may never be cleared and a null completed flag has no meaning.
type UpdateParams struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// IsEmpty reports whether the patch changes nothing.
func (p UpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}
