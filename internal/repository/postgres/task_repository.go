package postgres

import (
	"context"
	"errors"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		DB: db,
	}
}

// CreateWithEscrow debits the buyer's escrow and inserts the task in one
// transaction. If the buyer cannot cover the escrow nothing is written and
// domain.ErrInsufficientCoin comes back.
func (r *TaskRepository) CreateWithEscrow(ctx context.Context, task *domain.Task) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cost := task.Escrow()
		if cost > 0 {
			if err := debitCoins(tx, task.BuyerID, cost); err != nil {
				return err
			}
		}

		return tx.Create(task).Error
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (domain.Task, error) {
	var task domain.Task

	err := r.DB.WithContext(ctx).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	return task, nil
}

func (r *TaskRepository) FindByBuyerEmail(ctx context.Context, email string) ([]domain.Task, error) {
	var tasks []domain.Task

	err := r.DB.WithContext(ctx).
		Where("buyer_email = ?", email).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindAvailable lists tasks still accepting submissions, newest first.
func (r *TaskRepository) FindAvailable(ctx context.Context, page, limit int) ([]domain.Task, int64, error) {
	var tasks []domain.Task
	var total int64

	query := r.DB.WithContext(ctx).Model(&domain.Task{}).Where("required_workers > 0")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task

	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdatePatch writes the editable fields only. Escrow-determining columns
// never pass through here.
func (r *TaskRepository) UpdatePatch(ctx context.Context, id uint, patch domain.TaskPatch) error {
	result := r.DB.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":           patch.Title,
			"detail":          patch.Detail,
			"submission_info": patch.SubmissionInfo,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// DeleteWithRefund refunds the unused escrow, auto-rejects pending
// submissions (their slots are part of the refunded escrow, so no release),
// queues worker notifications and removes the task, all in one transaction.
// The task row is locked FOR UPDATE before the refund is computed so a
// concurrent slot reservation cannot commit between the read and the delete
// and leave the buyer refunded for a slot a submission just claimed.
func (r *TaskRepository) DeleteWithRefund(ctx context.Context, id uint) (refund int, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task domain.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTaskNotFound
			}
			return err
		}

		refund = task.Escrow()
		if refund > 0 {
			if err := creditCoins(tx, task.BuyerID, refund); err != nil {
				return err
			}
		}

		var pending []domain.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("task_id = ? AND status = ?", id, domain.SubmissionPending).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) > 0 {
			if err := tx.Model(&domain.Submission{}).
				Where("task_id = ? AND status = ?", id, domain.SubmissionPending).
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

		result := tx.Delete(&domain.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return refund, nil
}

// ReserveSlot claims one worker slot with a conditional decrement. Two
// workers racing for the last slot cannot both pass the guard.
func (r *TaskRepository) ReserveSlot(ctx context.Context, id uint) error {
	return reserveSlot(r.DB.WithContext(ctx), id)
}

// ReleaseSlot returns a slot to the pool after a rejection.
func (r *TaskRepository) ReleaseSlot(ctx context.Context, id uint) error {
	return releaseSlot(r.DB.WithContext(ctx), id)
}

func reserveSlot(tx *gorm.DB, id uint) error {
	result := tx.Model(&domain.Task{}).
		Where("id = ? AND required_workers > 0", id).
		Update("required_workers", gorm.Expr("required_workers - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNoSlotsAvailable
	}

	return nil
}

func releaseSlot(tx *gorm.DB, id uint) error {
	result := tx.Model(&domain.Task{}).
		Where("id = ?", id).
		Update("required_workers", gorm.Expr("required_workers + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
