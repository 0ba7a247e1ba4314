package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SubmissionHandler struct {
		validate          *validator.Validate
		submissionService SubmissionService
	}

	SubmissionService interface {
		Submit(ctx context.Context, workerID, taskID uint, details string) (domain.Submission, error)
		Approve(ctx context.Context, submissionID, callerID uint) (domain.Submission, error)
		Reject(ctx context.Context, submissionID, callerID uint, reason string) (domain.Submission, error)
		GetWorkerSubmissions(ctx context.Context, email string, page, limit int) ([]domain.Submission, int64, error)
		GetBuyerSubmissions(ctx context.Context, email, status string) ([]domain.Submission, error)
	}

	SubmissionInput struct {
		TaskID  uint   `json:"task_id" validate:"required"`
		Details string `json:"details" validate:"required"`
	}

	SubmissionRejectInput struct {
		Reason string `json:"reason"`
	}
)

func NewSubmissionHandler(submissionService SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		validate:          validator.New(),
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) CreateSubmission(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request SubmissionInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate create submission", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	submission, err := h.submissionService.Submit(c.Request().Context(), userID, request.TaskID, request.Details)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSlotsAvailable):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrEmptyDetails):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create submission", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(submission))
}

// GetWorkerSubmissions serves the worker's paginated history
func (h *SubmissionHandler) GetWorkerSubmissions(c echo.Context) error {
	email := c.QueryParam("email")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if email == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "email is required"})
	}

	submissions, total, err := h.submissionService.GetWorkerSubmissions(c.Request().Context(), email, page, limit)
	if err != nil {
		logger.Error("Failed to get worker submissions", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"total":       total,
	})
}

// GetBuyerSubmissions serves the buyer's review queue
func (h *SubmissionHandler) GetBuyerSubmissions(c echo.Context) error {
	email := c.QueryParam("buyerEmail")
	status := c.QueryParam("status")

	if email == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "buyerEmail is required"})
	}

	submissions, err := h.submissionService.GetBuyerSubmissions(c.Request().Context(), email, status)
	if err != nil {
		logger.Error("Failed to get buyer submissions", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(submissions))
}

func (h *SubmissionHandler) ApproveSubmission(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid submission ID"})
	}

	submission, err := h.submissionService.Approve(c.Request().Context(), uint(id), userID)
	if err != nil {
		return h.decisionError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(submission))
}

func (h *SubmissionHandler) RejectSubmission(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid submission ID"})
	}

	var request SubmissionRejectInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	submission, err := h.submissionService.Reject(c.Request().Context(), uint(id), userID, request.Reason)
	if err != nil {
		return h.decisionError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(submission))
}

func (h *SubmissionHandler) decisionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyFinalized):
		// A double-click is not a failure; report it as already processed.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "already processed",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	logger.Error("Failed to finalize submission", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}
