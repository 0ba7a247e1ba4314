package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{
		DB: db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.DB.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (domain.Payment, error) {
	var payment domain.Payment

	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, err
	}

	return payment, nil
}

func (r *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	var payments []domain.Payment

	err := r.DB.WithContext(ctx).
		Where("buyer_email = ?", email).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// FinalizeWithCredit marks the payment success and credits the purchased
// coins, keyed by session id. The status flip is a conditional update, so N
// concurrent calls with the same session credit the buyer exactly once; the
// losers report credited=false and the caller treats that as already done.
func (r *PaymentRepository) FinalizeWithCredit(ctx context.Context, sessionID string) (payment domain.Payment, credited bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&domain.Payment{}).
			Where("session_id = ? AND payment_status = ?", sessionID, domain.PaymentPending).
			Updates(map[string]interface{}{
				"payment_status": domain.PaymentSuccess,
				"paid_at":        now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Someone already finalized this session. Not an error, but the
			// snapshot read above predates their commit, so re-read the row
			// to report the settled state instead of a stale pending one.
			credited = false
			return tx.Where("session_id = ?", sessionID).First(&payment).Error
		}

		if err := creditCoins(tx, payment.BuyerID, payment.Coin); err != nil {
			return err
		}

		payment.PaymentStatus = domain.PaymentSuccess
		payment.PaidAt = &now
		credited = true
		return nil
	})
	if err != nil {
		return domain.Payment{}, false, err
	}

	return payment, credited, nil
}
