package postgres

import (
	"context"
	"errors"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{
		DB: db,
	}
}

// CreateWithSlotReserve reserves a task slot and inserts the submission in
// one transaction. The slot is claimed at submission time, not approval time;
// if the reservation loses the race nothing is written.
func (r *SubmissionRepository) CreateWithSlotReserve(ctx context.Context, submission *domain.Submission) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveSlot(tx, submission.TaskID); err != nil {
			return err
		}

		return tx.Create(submission).Error
	})
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (domain.Submission, error) {
	var submission domain.Submission

	err := r.DB.WithContext(ctx).First(&submission, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Submission{}, domain.ErrSubmissionNotFound
		}
		return domain.Submission{}, err
	}

	return submission, nil
}

// FindPaginatedByWorker returns a worker's submission history, newest first.
func (r *SubmissionRepository) FindPaginatedByWorker(ctx context.Context, email string, page, limit int) ([]domain.Submission, int64, error) {
	var submissions []domain.Submission
	var total int64

	query := r.DB.WithContext(ctx).Model(&domain.Submission{}).Where("worker_email = ?", email)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *SubmissionRepository) FindByBuyer(ctx context.Context, email, status string) ([]domain.Submission, error) {
	var submissions []domain.Submission

	query := r.DB.WithContext(ctx).Where("buyer_email = ?", email)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("created_at DESC").Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

// Approve flips a pending submission to approved, credits the worker the
// payable amount and queues their notification, atomically. A second caller
// loses the conditional update and gets domain.ErrAlreadyFinalized, so the
// payout can never double.
func (r *SubmissionRepository) Approve(ctx context.Context, submission domain.Submission, note domain.Notification) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", submission.ID, domain.SubmissionPending).
			Update("status", domain.SubmissionApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyFinalized
		}

		if err := creditCoins(tx, submission.WorkerID, submission.PayableAmount); err != nil {
			return err
		}

		return tx.Create(&note).Error
	})
}

// Reject flips a pending submission to rejected and returns its slot to the
// task. No coin movement.
func (r *SubmissionRepository) Reject(ctx context.Context, submission domain.Submission, note domain.Notification) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", submission.ID, domain.SubmissionPending).
			Update("status", domain.SubmissionRejected)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyFinalized
		}

		if err := releaseSlot(tx, submission.TaskID); err != nil {
			return err
		}

		return tx.Create(&note).Error
	})
}
