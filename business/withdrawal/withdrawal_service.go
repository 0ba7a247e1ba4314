package withdrawal

import (
	"context"
	"fmt"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/metrics"
)

// WithdrawalRepository contract interface
type WithdrawalRepository interface {
	CreateWithDebit(ctx context.Context, withdrawal *domain.Withdrawal) error
	FindByID(ctx context.Context, id uint) (domain.Withdrawal, error)
	FindByWorkerEmail(ctx context.Context, email string) ([]domain.Withdrawal, error)
	FindPending(ctx context.Context) ([]domain.Withdrawal, error)
	Approve(ctx context.Context, withdrawal domain.Withdrawal, note domain.Notification) error
	RejectWithRefund(ctx context.Context, withdrawal domain.Withdrawal, note domain.Notification) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type WithdrawalService struct {
	withdrawalRepo WithdrawalRepository
	userRepo       UserRepository
}

func NewWithdrawalService(withdrawalRepo WithdrawalRepository, userRepo UserRepository) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
	}
}

// Request debits the coins immediately (optimistic debit) and records the
// pending withdrawal. The cash amount is coin / 20, exact because the coin
// count must be a multiple of 20.
func (s *WithdrawalService) Request(ctx context.Context, workerID uint, coin int, paymentSystem, accountNumber string) (domain.Withdrawal, error) {
	worker, err := s.userRepo.FindByID(ctx, workerID)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if worker.Role != domain.RoleWorker {
		return domain.Withdrawal{}, domain.ErrUnauthorized
	}

	if coin < domain.MinWithdrawalCoin {
		return domain.Withdrawal{}, domain.ErrBelowMinimum
	}
	if coin%domain.WithdrawalCoinsPerDollar != 0 {
		return domain.Withdrawal{}, domain.ErrInvalidAmount
	}
	if !domain.PaymentSystems[paymentSystem] {
		return domain.Withdrawal{}, domain.ErrInvalidAmount
	}

	withdrawal := domain.Withdrawal{
		WorkerID:         worker.ID,
		WorkerEmail:      worker.Email,
		WorkerName:       worker.FullName,
		WithdrawalCoin:   coin,
		WithdrawalAmount: domain.WithdrawalDollars(coin),
		PaymentSystem:    paymentSystem,
		AccountNumber:    accountNumber,
		Status:           domain.WithdrawalPending,
	}

	if err := s.withdrawalRepo.CreateWithDebit(ctx, &withdrawal); err != nil {
		if err != domain.ErrInsufficientCoin {
			logger.Error("Failed to create withdrawal", err)
		}
		return domain.Withdrawal{}, err
	}

	metrics.WithdrawalsRequested.Inc()
	return withdrawal, nil
}

// Approve marks a pending withdrawal paid out. The debit already happened at
// request time, so there is no coin movement here.
func (s *WithdrawalService) Approve(ctx context.Context, withdrawalID, adminID uint) (domain.Withdrawal, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return domain.Withdrawal{}, err
	}

	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return domain.Withdrawal{}, err
	}

	note := domain.Notification{
		RecipientEmail: withdrawal.WorkerEmail,
		Message: fmt.Sprintf("Your withdrawal of %d coins ($%.2f via %s) was approved",
			withdrawal.WithdrawalCoin, withdrawal.WithdrawalAmount, withdrawal.PaymentSystem),
		ActionRoute: "/dashboard/withdrawals",
	}

	if err := s.withdrawalRepo.Approve(ctx, withdrawal, note); err != nil {
		if err != domain.ErrAlreadyFinalized {
			logger.Error("Failed to approve withdrawal", err)
		}
		return domain.Withdrawal{}, err
	}

	withdrawal.Status = domain.WithdrawalApproved
	return withdrawal, nil
}

// Reject cancels a pending withdrawal and refunds the coins debited at
// request time.
func (s *WithdrawalService) Reject(ctx context.Context, withdrawalID, adminID uint, reason string) (domain.Withdrawal, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return domain.Withdrawal{}, err
	}

	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return domain.Withdrawal{}, err
	}

	msg := fmt.Sprintf("Your withdrawal of %d coins was rejected and the coins were returned", withdrawal.WithdrawalCoin)
	if reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}

	note := domain.Notification{
		RecipientEmail: withdrawal.WorkerEmail,
		Message:        msg,
		ActionRoute:    "/dashboard/withdrawals",
	}

	if err := s.withdrawalRepo.RejectWithRefund(ctx, withdrawal, note); err != nil {
		if err != domain.ErrAlreadyFinalized {
			logger.Error("Failed to reject withdrawal", err)
		}
		return domain.Withdrawal{}, err
	}

	metrics.CoinsCredited.WithLabelValues("withdrawal_refund").Add(float64(withdrawal.WithdrawalCoin))

	withdrawal.Status = domain.WithdrawalRejected
	return withdrawal, nil
}

func (s *WithdrawalService) GetWorkerWithdrawals(ctx context.Context, email string) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.FindByWorkerEmail(ctx, email)
}

func (s *WithdrawalService) GetPendingWithdrawals(ctx context.Context, adminID uint) ([]domain.Withdrawal, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	return s.withdrawalRepo.FindPending(ctx)
}

func (s *WithdrawalService) requireAdmin(ctx context.Context, callerID uint) error {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin {
		return domain.ErrUnauthorized
	}

	return nil
}
