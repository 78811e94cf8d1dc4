package handler

import (
	"net/http"

	"velora/internal/middleware"
	"velora/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	repo *repository.WalletRepository
}

func NewWalletHandler(repo *repository.WalletRepository) *WalletHandler {
	return &WalletHandler{repo: repo}
}

// Get returns the caller's wallet, creating an empty one on first access.
func (h *WalletHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.repo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// Transactions returns the caller's wallet ledger, newest first.
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	txs, err := h.repo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
