package postgres

import (
	"context"

	"github.com/hossain-shifat/TaskNest-sub000/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		DB: db,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.DB.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, email string) ([]domain.Notification, error) {
	var notifications []domain.Notification

	err := r.DB.WithContext(ctx).
		Where("recipient_email = ?", email).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// Delete removes a notification only when it belongs to the given recipient.
func (r *NotificationRepository) Delete(ctx context.Context, id uint, recipientEmail string) error {
	result := r.DB.WithContext(ctx).
		Where("id = ? AND recipient_email = ?", id, recipientEmail).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUnauthorized
	}

	return nil
}
