package domain

import "time"

const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
)

// CoinPackage is a fixed purchase tuple. Packages are not computed from a
// flat rate; the catalog below is the entire offer.
type CoinPackage struct {
	Coin    int     `json:"coin"`
	Dollars float64 `json:"dollars"`
}

var CoinPackages = []CoinPackage{
	{Coin: 10, Dollars: 1},
	{Coin: 150, Dollars: 10},
	{Coin: 500, Dollars: 20},
	{Coin: 1000, Dollars: 35},
}

// FindCoinPackage returns the catalog entry for a coin count.
func FindCoinPackage(coin int) (CoinPackage, bool) {
	for _, p := range CoinPackages {
		if p.Coin == coin {
			return p, true
		}
	}
	return CoinPackage{}, false
}

type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BuyerID       uint      `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
	BuyerEmail    string    `gorm:"column:buyer_email;not null;index" json:"buyer_email"`
	Coin          int       `gorm:"column:coin;not null" json:"coin"`
	Amount        float64   `gorm:"column:amount;not null" json:"amount"`
	Currency      string    `gorm:"column:currency;not null;default:usd" json:"currency"`
	SessionID     string    `gorm:"column:session_id;uniqueIndex;not null" json:"session_id"`
	ClientRef     string    `gorm:"column:client_ref" json:"client_ref"`
	PaymentStatus string    `gorm:"column:payment_status;not null;default:pending" json:"payment_status"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentWithLink is the checkout-session response returned to the client.
type PaymentWithLink struct {
	ID            uint      `json:"id"`
	SessionID     string    `json:"session_id"`
	Coin          int       `json:"coin"`
	Amount        float64   `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	CheckoutURL   string    `json:"checkout_url"`
	CreatedAt     time.Time `json:"created_at"`
}
