package domain

import "time"

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

type Submission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TaskID        uint      `gorm:"column:task_id;not null;index" json:"task_id"`
	TaskTitle     string    `gorm:"column:task_title" json:"task_title"`
	PayableAmount int       `gorm:"column:payable_amount;not null" json:"payable_amount"`
	WorkerID      uint      `gorm:"column:worker_id;not null;index" json:"worker_id"`
	WorkerEmail   string    `gorm:"column:worker_email;not null;index" json:"worker_email"`
	WorkerName    string    `gorm:"column:worker_name" json:"worker_name"`
	BuyerEmail    string    `gorm:"column:buyer_email;not null;index" json:"buyer_email"`
	BuyerName     string    `gorm:"column:buyer_name" json:"buyer_name"`
	Details       string    `gorm:"column:details;not null" json:"details"`
	Status        string    `gorm:"column:status;not null;default:pending;index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
