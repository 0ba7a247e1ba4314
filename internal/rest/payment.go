package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PaymentHandler struct {
		validate       *validator.Validate
		paymentService PaymentService
	}

	PaymentService interface {
		CreateCheckoutSession(ctx context.Context, buyerID uint, coin int) (domain.PaymentWithLink, error)
		FinalizeCheckout(ctx context.Context, sessionID string) (domain.Payment, error)
		GetPaymentsByEmail(ctx context.Context, email string) ([]domain.Payment, error)
		CoinPackages() []domain.CoinPackage
	}

	CheckoutInput struct {
		Coin int `json:"coin" validate:"required,gt=0"`
	}
)

func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{
		validate:       validator.New(),
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request CheckoutInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate checkout request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	payment, err := h.paymentService.CreateCheckoutSession(c.Request().Context(), userID, request.Coin)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "unknown coin package"})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		}
		logger.Error("Failed to create checkout session", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(payment))
}

// FinalizeCheckout runs on every load of the success page, browser refreshes
// included. The service guarantees at-most-once crediting per session id.
func (h *PaymentHandler) FinalizeCheckout(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session_id is required"})
	}

	payment, err := h.paymentService.FinalizeCheckout(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to finalize checkout", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payment))
}

func (h *PaymentHandler) GetPayments(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "email is required"})
	}

	payments, err := h.paymentService.GetPaymentsByEmail(c.Request().Context(), email)
	if err != nil {
		logger.Error("Failed to get payments", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}

func (h *PaymentHandler) GetCoinPackages(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.paymentService.CoinPackages()))
}
