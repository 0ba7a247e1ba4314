package notification

import (
	"context"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
)

// NotificationRepository contract interface
type NotificationRepository interface {
	FindByRecipient(ctx context.Context, email string) ([]domain.Notification, error)
	Delete(ctx context.Context, id uint, recipientEmail string) error
}

type NotificationService struct {
	notificationRepo NotificationRepository
}

func NewNotificationService(notificationRepo NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// GetNotifications returns the recipient's feed, newest first. The client
// polls this on an interval; there is no push channel.
func (s *NotificationService) GetNotifications(ctx context.Context, email string) ([]domain.Notification, error) {
	return s.notificationRepo.FindByRecipient(ctx, email)
}

// DeleteNotification dismisses a single notification. Only the recipient can
// delete their own.
func (s *NotificationService) DeleteNotification(ctx context.Context, id uint, recipientEmail string) error {
	if err := s.notificationRepo.Delete(ctx, id, recipientEmail); err != nil {
		if err != domain.ErrUnauthorized {
			logger.Error("Failed to delete notification", err)
		}
		return err
	}

	return nil
}
