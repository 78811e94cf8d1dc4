package repository

import (
	"errors"
	"strconv"

	"velora/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, BalanceCents: 0}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// Credit adds to the user's balance and records the transaction atomically.
func (r *WalletRepository) Credit(userID uint, amountCents int64, txType string, bookingID uint) error {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Wallet{}).Where("id = ?", w.ID).
			Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).Error; err != nil {
			return err
		}
		return tx.Create(&models.WalletTransaction{
			UserID:      userID,
			AmountCents: amountCents,
			Type:        txType,
			Reference:   strconv.FormatUint(uint64(bookingID), 10),
		}).Error
	})
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
