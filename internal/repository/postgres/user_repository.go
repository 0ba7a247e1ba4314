package postgres

import (
	"context"
	"errors"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User

	if err := r.DB.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// CreditCoins atomically increases a balance. Amounts must be positive.
func (r *UserRepository) CreditCoins(ctx context.Context, userID uint, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	return creditCoins(r.DB.WithContext(ctx), userID, amount)
}

// DebitCoins decrements the balance only when it covers the amount, as a
// single conditional update. A concurrent debit can never push the balance
// below zero.
func (r *UserRepository) DebitCoins(ctx context.Context, userID uint, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	return debitCoins(r.DB.WithContext(ctx), userID, amount)
}

func creditCoins(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&domain.User{}).
		Where("id = ?", userID).
		Update("coin", gorm.Expr("coin + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func debitCoins(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&domain.User{}).
		Where("id = ? AND coin >= ?", userID, amount).
		Update("coin", gorm.Expr("coin - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientCoin
	}

	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("full_name", "bio", "photo_url", "banner_url").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_verified", isVerified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Delete removes a user and unwinds their open business: remaining task
// escrow evaporates with the account, the deleted worker's pending
// submissions are rejected so their slots return to the pool, and pending
// withdrawals die with the balance. Runs as one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		var tasks []domain.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("buyer_id = ?", id).Find(&tasks).Error; err != nil {
			return err
		}
		for _, task := range tasks {
			var pending []domain.Submission
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("task_id = ? AND status = ?", task.ID, domain.SubmissionPending).
				Find(&pending).Error; err != nil {
				return err
			}
			if len(pending) > 0 {
				if err := tx.Model(&domain.Submission{}).
					Where("task_id = ? AND status = ?", task.ID, domain.SubmissionPending).
					Update("status", domain.SubmissionRejected).Error; err != nil {
					return err
				}
				for _, sub := range pending {
					note := domain.Notification{
						RecipientEmail: sub.WorkerEmail,
						Message:        "Your submission for \"" + task.Title + "\" was rejected because the task was removed",
						ActionRoute:    "/dashboard/my-submissions",
					}
					if err := tx.Create(&note).Error; err != nil {
						return err
					}
				}
			}
			if err := tx.Delete(&domain.Task{}, task.ID).Error; err != nil {
				return err
			}
		}

		// Pending submissions authored by the user give their slots back. No
		// notifications here: the recipient account is the one going away.
		var pending []domain.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("worker_id = ? AND status = ?", id, domain.SubmissionPending).
			Find(&pending).Error; err != nil {
			return err
		}
		for _, sub := range pending {
			if err := tx.Model(&domain.Task{}).
				Where("id = ?", sub.TaskID).
				Update("required_workers", gorm.Expr("required_workers + 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&domain.Submission{}).
			Where("worker_id = ? AND status = ?", id, domain.SubmissionPending).
			Update("status", domain.SubmissionRejected).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Withdrawal{}).
			Where("worker_id = ? AND status = ?", id, domain.WithdrawalPending).
			Update("status", domain.WithdrawalRejected).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}

		return nil
	})
}
