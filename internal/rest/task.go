package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/business/task"
	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	TaskHandler struct {
		validate    *validator.Validate
		taskService TaskService
	}

	TaskService interface {
		CreateTask(ctx context.Context, buyerID uint, input task.TaskInput) (domain.Task, error)
		EditTask(ctx context.Context, taskID, callerID uint, patch domain.TaskPatch, financialPatch bool) (domain.Task, error)
		DeleteTask(ctx context.Context, taskID, callerID uint) (int, error)
		GetTask(ctx context.Context, taskID uint) (domain.Task, error)
		GetTasksByBuyer(ctx context.Context, email string) ([]domain.Task, error)
		GetAvailableTasks(ctx context.Context, page, limit int) ([]domain.Task, int64, error)
		GetAllTasks(ctx context.Context) ([]domain.Task, error)
	}

	TaskCreateInput struct {
		Title           string    `json:"title" validate:"required"`
		Detail          string    `json:"detail"`
		RequiredWorkers int       `json:"required_workers" validate:"min=0"`
		PayableAmount   int       `json:"payable_amount" validate:"required,gt=0"`
		CompletionDate  time.Time `json:"completion_date"`
		SubmissionInfo  string    `json:"submission_info"`
		ImageURL        string    `json:"image_url"`
	}

	// TaskPatchInput carries pointers for the escrow fields so an attempt to
	// change them is distinguishable from omitting them.
	TaskPatchInput struct {
		Title           string `json:"title"`
		Detail          string `json:"detail"`
		SubmissionInfo  string `json:"submission_info"`
		RequiredWorkers *int   `json:"required_workers"`
		PayableAmount   *int   `json:"payable_amount"`
	}
)

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		validate:    validator.New(),
		taskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request TaskCreateInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate create task", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	created, err := h.taskService.CreateTask(c.Request().Context(), userID, task.TaskInput{
		Title:           request.Title,
		Detail:          request.Detail,
		RequiredWorkers: request.RequiredWorkers,
		PayableAmount:   request.PayableAmount,
		CompletionDate:  request.CompletionDate,
		SubmissionInfo:  request.SubmissionInfo,
		ImageURL:        request.ImageURL,
	})
	if err != nil {
		// The SPA matches this body verbatim to redirect into the purchase
		// flow, so it ships with a 200.
		if errors.Is(err, domain.ErrInsufficientCoin) {
			return c.JSON(http.StatusOK, ResponseError{Message: "insufficient coin"})
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		}
		logger.Error("Failed to create task", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *TaskHandler) GetTasks(c echo.Context) error {
	buyerEmail := c.QueryParam("buyerEmail")

	if buyerEmail != "" {
		tasks, err := h.taskService.GetTasksByBuyer(c.Request().Context(), buyerEmail)
		if err != nil {
			logger.Error("Failed to get buyer tasks", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(tasks))
	}

	tasks, err := h.taskService.GetAllTasks(c.Request().Context())
	if err != nil {
		logger.Error("Failed to get all tasks", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(tasks))
}

func (h *TaskHandler) GetAvailableTasks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	tasks, total, err := h.taskService.GetAvailableTasks(c.Request().Context(), page, limit)
	if err != nil {
		logger.Error("Failed to get available tasks", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": total,
	})
}

func (h *TaskHandler) GetTaskByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid task ID"})
	}

	found, err := h.taskService.GetTask(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid task ID"})
	}

	var request TaskPatchInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	financialPatch := request.RequiredWorkers != nil || request.PayableAmount != nil

	updated, err := h.taskService.EditTask(c.Request().Context(), uint(id), userID, domain.TaskPatch{
		Title:          request.Title,
		Detail:         request.Detail,
		SubmissionInfo: request.SubmissionInfo,
	}, financialPatch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrImmutableField):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid task ID"})
	}

	refund, err := h.taskService.DeleteTask(c.Request().Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Task deleted successfully",
		"refunded_coins": refund,
	})
}
