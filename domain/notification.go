package domain

import "time"

type Notification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RecipientEmail string    `gorm:"column:recipient_email;not null;index" json:"recipient_email"`
	Message        string    `gorm:"column:message;not null" json:"message"`
	ActionRoute    string    `gorm:"column:action_route" json:"action_route"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
