package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/logging"
	"github.com/tasknest/tasknest/internal/task"
	"github.com/tasknest/tasknest/internal/user"
)

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byEmail: make(map[string]*user.User),
		byID:    make(map[uuid.UUID]*user.User),
	}
}

func (r *memUserRepo) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	r.byEmail[email] = u
	r.byID[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks []*task.Task
}

func (r *memTaskRepo) List(_ context.Context, ownerID uuid.UUID) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []task.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) Create(_ context.Context, ownerID uuid.UUID, title string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := &task.Task{ID: uuid.New(), OwnerID: ownerID, Title: title}
	r.tasks = append(r.tasks, t)
	copied := *t
	return &copied, nil
}

func (r *memTaskRepo) Update(_ context.Context, ownerID, taskID uuid.UUID, params task.UpdateParams) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		if t.ID == taskID && t.OwnerID == ownerID {
			if params.Title != nil {
				t.Title = *params.Title
			}
			if params.Completed != nil {
				t.Completed = *params.Completed
			}
			copied := *t
			return &copied, nil
		}
	}
	return nil, task.ErrNotFound
}

func (r *memTaskRepo) Delete(_ context.Context, ownerID, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == taskID && t.OwnerID == ownerID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return task.ErrNotFound
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: "0",
			Env:  "prod", // no swagger route in tests
		},
		Auth: config.AuthConfig{
			PasetoKey:           []byte("0123456789abcdef0123456789abcdef"),
			AccessTokenDuration: time.Hour,
		},
	}

	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	require.NoError(t, err)

	userRepo := newMemUserRepo()
	taskRepo := &memTaskRepo{}

	authService := auth.NewService(userRepo, pasetoService, cfg.Auth.AccessTokenDuration)
	taskService := task.NewService(taskRepo)

	router := NewRouter(
		cfg,
		auth.NewHandler(authService),
		task.NewHandler(taskService),
		auth.NewMiddleware(pasetoService, userRepo),
		logging.NewLogger(true),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func request(t *testing.T, server *httptest.Server, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, body := request(t, server, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "api is running")
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodPatch, "/tasks/" + uuid.NewString()},
		{http.MethodDelete, "/tasks/" + uuid.NewString()},
	} {
		resp, _ := request(t, server, route.method, route.path, "", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

// TestRouter_FullLifecycle walks the whole happy path: signup, login,
// create a task, list it, complete it, delete it, list empty.
func TestRouter_FullLifecycle(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, _ := request(t, server, http.MethodPost, "/auth/signup", "", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := request(t, server, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenResp auth.AuthToken
	require.NoError(t, json.Unmarshal(body, &tokenResp))
	require.NotEmpty(t, tokenResp.AccessToken)
	token := tokenResp.AccessToken

	resp, body = request(t, server, http.MethodGet, "/me", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "a@x.com")

	resp, body = request(t, server, http.MethodPost, "/tasks", token, `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "buy milk", created.Title)
	require.False(t, created.Completed)

	resp, body = request(t, server, http.MethodGet, "/tasks", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "buy milk", listed[0].Title)
	require.False(t, listed[0].Completed)

	resp, body = request(t, server, http.MethodPatch, "/tasks/"+created.ID.String(), token, `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	require.True(t, updated.Completed)

	resp, body = request(t, server, http.MethodGet, "/tasks", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	require.True(t, listed[0].Completed)

	resp, _ = request(t, server, http.MethodDelete, "/tasks/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = request(t, server, http.MethodGet, "/tasks", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Empty(t, listed)
}

// TestRouter_CrossUserIsolation verifies one user's token gives no access
// to another user's tasks, and that probing leaks nothing but a 404.
func TestRouter_CrossUserIsolation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	tokenFor := func(email string) string {
		resp, _ := request(t, server, http.MethodPost, "/auth/signup", "", `{"email":"`+email+`","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := request(t, server, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"secret1"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var tokenResp auth.AuthToken
		require.NoError(t, json.Unmarshal(body, &tokenResp))
		return tokenResp.AccessToken
	}

	tokenA := tokenFor("a@x.com")
	tokenB := tokenFor("b@x.com")

	resp, body := request(t, server, http.MethodPost, "/tasks", tokenB, `{"title":"b's task"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var taskB task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &taskB))

	// A sees nothing
	resp, body = request(t, server, http.MethodGet, "/tasks", tokenA, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listedA []task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &listedA))
	require.Empty(t, listedA)

	// A cannot mutate or delete B's task
	resp, _ = request(t, server, http.MethodPatch, "/tasks/"+taskB.ID.String(), tokenA, `{"completed":true}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = request(t, server, http.MethodDelete, "/tasks/"+taskB.ID.String(), tokenA, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// B's task is intact
	resp, body = request(t, server, http.MethodGet, "/tasks", tokenB, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listedB []task.TaskResponse
	require.NoError(t, json.Unmarshal(body, &listedB))
	require.Len(t, listedB, 1)
	require.False(t, listedB[0].Completed)
}
