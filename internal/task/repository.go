package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tasknest/tasknest/internal/database"
)

// Repository handles task data persistence. Every query that targets a
// single task filters by both id and owner_id in one statement, so a
// missing row and a row owned by someone else are indistinguishable.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all tasks owned by ownerID in insertion order
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID) ([]Task, error) {
	var dbTasks []database.Task
	err := r.db.NewSelect().
		Model(&dbTasks).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, *mapDBTaskToModel(&dbTasks[i]))
	}

	return tasks, nil
}

// Create inserts a new task owned by ownerID
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, title string) (*Task, error) {
	dbTask := &database.Task{
		OwnerID: ownerID,
		Title:   title,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// Update applies a partial update to the task matching (taskID, ownerID) in
// a single UPDATE statement. Zero rows matched means ErrNotFound, whether
// the task does not exist or belongs to another owner.
func (r *Repository) Update(ctx context.Context, ownerID, taskID uuid.UUID, params UpdateParams) (*Task, error) {
	dbTask := new(database.Task)
	query := r.db.NewUpdate().
		Model(dbTask).
		Set("updated_at = NOW()").
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Returning("*")

	if params.Title != nil {
		query = query.Set("title = ?", *params.Title)
	}
	if params.Completed != nil {
		query = query.Set("completed = ?", *params.Completed)
	}

	result, err := query.Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// Delete removes the task matching (taskID, ownerID) in a single DELETE
// statement, with the same combined-filter semantics as Update.
func (r *Repository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBTaskToModel converts database model to domain model
func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:        dbt.ID,
		OwnerID:   dbt.OwnerID,
		Title:     dbt.Title,
		Completed: dbt.Completed,
		CreatedAt: dbt.CreatedAt,
		UpdatedAt: dbt.UpdatedAt,
	}
}
