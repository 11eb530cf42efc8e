package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/httputil"
	"github.com/tasknest/tasknest/internal/logging"
)

// Handler contains HTTP handlers for task endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

func toTaskResponse(t *Task) TaskResponse {
	return TaskResponse{ID: t.ID, Title: t.Title, Completed: t.Completed}
}

// List returns all tasks of the authenticated user
// @Summary      List tasks
// @Description  Return all tasks owned by the authenticated user
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} TaskResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.List(r.Context(), identity.ID)
	if err != nil {
		logger.Error("failed to list tasks", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}

	httputil.RespondJSON(w, responses, http.StatusOK)
}

// Create creates a new task for the authenticated user
// @Summary      Create task
// @Description  Create a new task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTaskRequest true "Task title"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), identity.ID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleRequired):
			logger.Warn("create task failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleRequired, http.StatusBadRequest)
		case errors.Is(err, ErrTitleTooLong):
			logger.Warn("create task failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleTooLong, http.StatusBadRequest)
		default:
			logger.Error("create task failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create task", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("task created", "task_id", created.ID)

	httputil.RespondJSON(w, toTaskResponse(created), http.StatusCreated)
}

// Update applies a partial update to a task of the authenticated user
// @Summary      Update task
// @Description  Partially update a task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskID path string true "Task ID"
// @Param        request body UpdateParams true "Fields to update"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{taskID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeInvalidTaskID, http.StatusBadRequest)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		logger.Warn("invalid update task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), identity.ID, taskID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
		case errors.Is(err, ErrTitleRequired):
			logger.Warn("update task failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleRequired, http.StatusBadRequest)
		case errors.Is(err, ErrTitleTooLong):
			logger.Warn("update task failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTitleTooLong, http.StatusBadRequest)
		default:
			logger.Error("update task failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to update task", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, toTaskResponse(updated), http.StatusOK)
}

// Delete removes a task of the authenticated user
// @Summary      Delete task
// @Description  Delete a task owned by the authenticated user
// @Tags         tasks
// @Security     BearerAuth
// @Param        taskID path string true "Task ID"
// @Success      204 "No Content"
// @Failure      400 {object} httputil.ErrorResponse "Invalid task id"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{taskID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeInvalidTaskID, http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), identity.ID, taskID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
			return
		}
		logger.Error("delete task failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
