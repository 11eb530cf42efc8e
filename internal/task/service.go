package task

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// TaskRepository defines the persistence operations the task service needs.
// Implemented by Repository.
type TaskRepository interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title string) (*Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, params UpdateParams) (*Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// Service handles task business logic. Every operation takes the owner id
// of the authenticated caller explicitly; there is no path to a task that
// bypasses it.
type Service struct {
	repo TaskRepository
}

func NewService(repo TaskRepository) *Service {
	return &Service{repo: repo}
}

// List returns all tasks owned by ownerID
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Task, error) {
	return s.repo.List(ctx, ownerID)
}

// Create validates the title and persists a new task owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title string) (*Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, ownerID, title)
}

// Update applies a partial update to a task owned by ownerID
func (s *Service) Update(ctx context.Context, ownerID, taskID uuid.UUID, params UpdateParams) (*Task, error) {
	if params.Title != nil {
		title, err := validateTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		params.Title = &title
	}

	return s.repo.Update(ctx, ownerID, taskID, params)
}

// Delete removes a task owned by ownerID
func (s *Service) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, taskID)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > maxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}
