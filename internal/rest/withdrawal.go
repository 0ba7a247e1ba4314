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
	WithdrawalHandler struct {
		validate          *validator.Validate
		withdrawalService WithdrawalService
	}

	WithdrawalService interface {
		Request(ctx context.Context, workerID uint, coin int, paymentSystem, accountNumber string) (domain.Withdrawal, error)
		Approve(ctx context.Context, withdrawalID, adminID uint) (domain.Withdrawal, error)
		Reject(ctx context.Context, withdrawalID, adminID uint, reason string) (domain.Withdrawal, error)
		GetWorkerWithdrawals(ctx context.Context, email string) ([]domain.Withdrawal, error)
		GetPendingWithdrawals(ctx context.Context, adminID uint) ([]domain.Withdrawal, error)
	}

	WithdrawalInput struct {
		WithdrawalCoin int    `json:"withdrawal_coin" validate:"required,gt=0"`
		PaymentSystem  string `json:"payment_system" validate:"required,oneof=stripe bkash rocket nagad"`
		AccountNumber  string `json:"account_number" validate:"required"`
	}

	WithdrawalRejectInput struct {
		Reason string `json:"reason"`
	}
)

func NewWithdrawalHandler(withdrawalService WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		validate:          validator.New(),
		withdrawalService: withdrawalService,
	}
}

func (h *WithdrawalHandler) CreateWithdrawal(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request WithdrawalInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate withdrawal request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	withdrawal, err := h.withdrawalService.Request(c.Request().Context(), userID, request.WithdrawalCoin, request.PaymentSystem, request.AccountNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBelowMinimum), errors.Is(err, domain.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientCoin):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "insufficient coin"})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		}
		logger.Error("Failed to create withdrawal", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(withdrawal))
}

func (h *WithdrawalHandler) GetWorkerWithdrawals(c echo.Context) error {
	email := c.QueryParam("workerEmail")
	if email == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "workerEmail is required"})
	}

	withdrawals, err := h.withdrawalService.GetWorkerWithdrawals(c.Request().Context(), email)
	if err != nil {
		logger.Error("Failed to get worker withdrawals", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(withdrawals))
}

func (h *WithdrawalHandler) GetPendingWithdrawals(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	withdrawals, err := h.withdrawalService.GetPendingWithdrawals(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		}
		logger.Error("Failed to get pending withdrawals", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(withdrawals))
}

func (h *WithdrawalHandler) ApproveWithdrawal(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid withdrawal ID"})
	}

	withdrawal, err := h.withdrawalService.Approve(c.Request().Context(), uint(id), userID)
	if err != nil {
		return h.decisionError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(withdrawal))
}

func (h *WithdrawalHandler) RejectWithdrawal(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid withdrawal ID"})
	}

	var request WithdrawalRejectInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	withdrawal, err := h.withdrawalService.Reject(c.Request().Context(), uint(id), userID, request.Reason)
	if err != nil {
		return h.decisionError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(withdrawal))
}

func (h *WithdrawalHandler) decisionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyFinalized):
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "already processed",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
	case errors.Is(err, domain.ErrWithdrawalNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	logger.Error("Failed to finalize withdrawal", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}
