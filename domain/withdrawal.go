package domain

import "time"

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// Conversion constants. Buyers purchase at 10 coins per dollar, workers cash
// out at 20 coins per dollar; the spread funds the platform.
const (
	PurchaseCoinsPerDollar   = 10
	WithdrawalCoinsPerDollar = 20
	MinWithdrawalCoin        = 200
)

var PaymentSystems = map[string]bool{
	"stripe": true,
	"bkash":  true,
	"rocket": true,
	"nagad":  true,
}

type Withdrawal struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	WorkerID         uint      `gorm:"column:worker_id;not null;index" json:"worker_id"`
	WorkerEmail      string    `gorm:"column:worker_email;not null;index" json:"worker_email"`
	WorkerName       string    `gorm:"column:worker_name" json:"worker_name"`
	WithdrawalCoin   int       `gorm:"column:withdrawal_coin;not null" json:"withdrawal_coin"`
	WithdrawalAmount float64   `gorm:"column:withdrawal_amount;not null" json:"withdrawal_amount"`
	PaymentSystem    string    `gorm:"column:payment_system;not null" json:"payment_system"`
	AccountNumber    string    `gorm:"column:account_number;not null" json:"account_number"`
	Status           string    `gorm:"column:status;not null;default:pending;index" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// WithdrawalDollars converts coins to currency at the cash-out rate,
// truncated to two decimal places.
func WithdrawalDollars(coin int) float64 {
	cents := coin * 100 / WithdrawalCoinsPerDollar
	return float64(cents) / 100
}
