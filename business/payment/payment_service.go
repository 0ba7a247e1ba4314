package payment

import (
	"context"
	"errors"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/metrics"

	"github.com/google/uuid"
)

// PaymentRepository contract interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (domain.Payment, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	FinalizeWithCredit(ctx context.Context, sessionID string) (domain.Payment, bool, error)
}

// StripeRepository contract interface
type StripeRepository interface {
	CreateCheckoutSession(ctx context.Context, buyerEmail, clientRef string, pkg domain.CoinPackage) (domain.StripeSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (domain.StripeSession, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type PaymentService struct {
	paymentRepo PaymentRepository
	stripeRepo  StripeRepository
	userRepo    UserRepository
}

func NewPaymentService(paymentRepo PaymentRepository, stripeRepo StripeRepository, userRepo UserRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		stripeRepo:  stripeRepo,
		userRepo:    userRepo,
	}
}

// CreateCheckoutSession opens a Stripe session for one of the fixed coin
// packages and records the pending payment keyed by the session id. No coins
// move until the session is finalized.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, buyerID uint, coin int) (domain.PaymentWithLink, error) {
	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		return domain.PaymentWithLink{}, err
	}
	if buyer.Role != domain.RoleBuyer && buyer.Role != domain.RoleAdmin {
		return domain.PaymentWithLink{}, domain.ErrUnauthorized
	}

	pkg, ok := domain.FindCoinPackage(coin)
	if !ok {
		return domain.PaymentWithLink{}, domain.ErrInvalidAmount
	}

	clientRef := uuid.NewString()
	session, err := s.stripeRepo.CreateCheckoutSession(ctx, buyer.Email, clientRef, pkg)
	if err != nil {
		logger.Error("Failed to create checkout session", err)
		return domain.PaymentWithLink{}, err
	}

	payment := domain.Payment{
		BuyerID:       buyer.ID,
		BuyerEmail:    buyer.Email,
		Coin:          pkg.Coin,
		Amount:        pkg.Dollars,
		Currency:      "usd",
		SessionID:     session.ID,
		ClientRef:     clientRef,
		PaymentStatus: domain.PaymentPending,
	}

	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		logger.Error("Failed to record pending payment", err)
		return domain.PaymentWithLink{}, err
	}

	return domain.PaymentWithLink{
		ID:            payment.ID,
		SessionID:     payment.SessionID,
		Coin:          payment.Coin,
		Amount:        payment.Amount,
		PaymentStatus: payment.PaymentStatus,
		CheckoutURL:   session.URL,
		CreatedAt:     payment.CreatedAt,
	}, nil
}

// FinalizeCheckout verifies the session with Stripe and credits the purchased
// coins exactly once per session id. The client calls it on every load of the
// success page, so repeats and concurrent duplicates must all come back
// success-equivalent without a second credit.
func (s *PaymentService) FinalizeCheckout(ctx context.Context, sessionID string) (domain.Payment, error) {
	start := time.Now()
	defer func() {
		metrics.CheckoutFinalizeLatency.Observe(time.Since(start).Seconds())
	}()

	payment, err := s.paymentRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Payment{}, err
	}

	if payment.PaymentStatus == domain.PaymentSuccess {
		return payment, nil
	}

	session, err := s.stripeRepo.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to verify checkout session", err)
		return domain.Payment{}, err
	}
	if session.PaymentStatus != "paid" {
		return domain.Payment{}, errors.New("payment has not been completed")
	}

	finalized, credited, err := s.paymentRepo.FinalizeWithCredit(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to finalize payment", err)
		return domain.Payment{}, err
	}

	if credited {
		metrics.CoinsCredited.WithLabelValues("purchase").Add(float64(finalized.Coin))
	}

	return finalized, nil
}

func (s *PaymentService) GetPaymentsByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	return s.paymentRepo.FindByEmail(ctx, email)
}

// CoinPackages exposes the fixed purchase catalog.
func (s *PaymentService) CoinPackages() []domain.CoinPackage {
	return domain.CoinPackages
}
