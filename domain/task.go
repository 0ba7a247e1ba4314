package domain

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Detail          string    `gorm:"column:detail" json:"detail"`
	BuyerID         uint      `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
	BuyerEmail      string    `gorm:"column:buyer_email;not null;index" json:"buyer_email"`
	BuyerName       string    `gorm:"column:buyer_name" json:"buyer_name"`
	RequiredWorkers int       `gorm:"column:required_workers;not null" json:"required_workers"`
	PayableAmount   int       `gorm:"column:payable_amount;not null" json:"payable_amount"`
	CompletionDate  time.Time `gorm:"column:completion_date" json:"completion_date"`
	SubmissionInfo  string    `gorm:"column:submission_info" json:"submission_info"`
	ImageURL        string    `gorm:"column:image_url" json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// Escrow is the coin amount reserved against the task's open slots.
func (t Task) Escrow() int {
	return t.RequiredWorkers * t.PayableAmount
}

// Available reports whether the task still accepts submissions.
func (t Task) Available() bool {
	return t.RequiredWorkers > 0
}

// TaskPatch carries the editable, non-financial fields of a task.
type TaskPatch struct {
	Title          string `json:"title"`
	Detail         string `json:"detail"`
	SubmissionInfo string `json:"submission_info"`
}
