package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleWorker = "worker"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

// Registration bonus per role.
const (
	WorkerStartingCoin = 10
	BuyerStartingCoin  = 50
)

type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FullName   string `gorm:"column:full_name;not null" json:"full_name"`
	Email      string `gorm:"column:email;unique;not null" json:"email"`
	IsVerified bool   `gorm:"column:is_verified;default:false" json:"is_verified"`
	Password   string `gorm:"column:password;not null" json:"-"`
	Role       string `gorm:"column:role;default:worker" json:"role"`
	Coin       int    `gorm:"column:coin;default:0" json:"coin"`
	Bio        string `gorm:"column:bio" json:"bio"`
	PhotoURL   string `gorm:"column:photo_url" json:"photo_url"`
	BannerURL  string `gorm:"column:banner_url" json:"banner_url"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// StartingCoin returns the registration bonus for a role. Admins start empty.
func StartingCoin(role string) int {
	switch role {
	case RoleWorker:
		return WorkerStartingCoin
	case RoleBuyer:
		return BuyerStartingCoin
	default:
		return 0
	}
}
