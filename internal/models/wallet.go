package models

import (
	"time"

	"gorm.io/gorm"
)

type Wallet struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceCents int64          `gorm:"not null;default:0" json:"balance_cents"`
	Currency     string         `gorm:"size:3;default:'NGN'" json:"currency"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction records credits/debits for wallet history (companion
// earnings from completed bookings, platform fees).
type WalletTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"` // positive = credit, negative = debit
	Type        string         `gorm:"size:30;not null;index" json:"type"` // EARNING, PLATFORM_FEE
	Reference   string         `gorm:"size:128" json:"reference"`          // e.g. booking id
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
