package postgres

import (
	"context"
	"errors"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	DB *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{
		DB: db,
	}
}

// CreateWithDebit debits the coins at request time and inserts the pending
// record in one transaction. The debit is conditional on the balance covering
// it, so a racing task creation by the same user cannot overdraw.
func (r *WithdrawalRepository) CreateWithDebit(ctx context.Context, withdrawal *domain.Withdrawal) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debitCoins(tx, withdrawal.WorkerID, withdrawal.WithdrawalCoin); err != nil {
			return err
		}

		return tx.Create(withdrawal).Error
	})
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id uint) (domain.Withdrawal, error) {
	var withdrawal domain.Withdrawal

	err := r.DB.WithContext(ctx).First(&withdrawal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Withdrawal{}, domain.ErrWithdrawalNotFound
		}
		return domain.Withdrawal{}, err
	}

	return withdrawal, nil
}

func (r *WithdrawalRepository) FindByWorkerEmail(ctx context.Context, email string) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal

	err := r.DB.WithContext(ctx).
		Where("worker_email = ?", email).
		Order("created_at DESC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}

func (r *WithdrawalRepository) FindPending(ctx context.Context) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal

	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.WithdrawalPending).
		Order("created_at ASC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}

// Approve finalizes a pending withdrawal. The coins already left the balance
// at request time, so this is a status flip plus notification only.
func (r *WithdrawalRepository) Approve(ctx context.Context, withdrawal domain.Withdrawal, note domain.Notification) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, domain.WithdrawalPending).
			Update("status", domain.WithdrawalApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyFinalized
		}

		return tx.Create(&note).Error
	})
}

// RejectWithRefund flips a pending withdrawal to rejected and restores the
// coins debited at request time, atomically.
func (r *WithdrawalRepository) RejectWithRefund(ctx context.Context, withdrawal domain.Withdrawal, note domain.Notification) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, domain.WithdrawalPending).
			Update("status", domain.WithdrawalRejected)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyFinalized
		}

		if err := creditCoins(tx, withdrawal.WorkerID, withdrawal.WithdrawalCoin); err != nil {
			return err
		}

		return tx.Create(&note).Error
	})
}
