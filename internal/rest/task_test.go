package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hossain-shifat/TaskNest-sub000/business/task"
	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"github.com/labstack/echo/v4"
)

type stubTaskService struct {
	createErr error
	created   domain.Task
}

func (s stubTaskService) CreateTask(_ context.Context, _ uint, _ task.TaskInput) (domain.Task, error) {
	return s.created, s.createErr
}

func (s stubTaskService) EditTask(_ context.Context, _, _ uint, _ domain.TaskPatch, _ bool) (domain.Task, error) {
	return domain.Task{}, nil
}

func (s stubTaskService) DeleteTask(_ context.Context, _, _ uint) (int, error) {
	return 0, nil
}

func (s stubTaskService) GetTask(_ context.Context, _ uint) (domain.Task, error) {
	return domain.Task{}, nil
}

func (s stubTaskService) GetTasksByBuyer(_ context.Context, _ string) ([]domain.Task, error) {
	return nil, nil
}

func (s stubTaskService) GetAvailableTasks(_ context.Context, _, _ int) ([]domain.Task, int64, error) {
	return nil, 0, nil
}

func (s stubTaskService) GetAllTasks(_ context.Context) ([]domain.Task, error) {
	return nil, nil
}

func postTask(t *testing.T, svc TaskService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(1))

	h := NewTaskHandler(svc)
	if err := h.CreateTask(c); err != nil {
		t.Fatalf("CreateTask handler: %v", err)
	}
	return rec
}

// The client matches this body character for character, so the contract is
// pinned down to the byte.
func TestCreateTaskInsufficientCoinBody(t *testing.T) {
	rec := postTask(t, stubTaskService{createErr: domain.ErrInsufficientCoin},
		`{"title":"Watch my video","required_workers":5,"payable_amount":10}`)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"insufficient coin"}` {
		t.Errorf("body = %q, want %q", got, `{"message":"insufficient coin"}`)
	}
}

func TestCreateTaskSuccess(t *testing.T) {
	rec := postTask(t, stubTaskService{created: domain.Task{ID: 7, Title: "Watch my video"}},
		`{"title":"Watch my video","required_workers":5,"payable_amount":10}`)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	rec := postTask(t, stubTaskService{}, `{"detail":"no title or amount"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTaskForbiddenRole(t *testing.T) {
	rec := postTask(t, stubTaskService{createErr: domain.ErrUnauthorized},
		`{"title":"Watch my video","required_workers":1,"payable_amount":1}`)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
