package contracts

import (
	"time"

	"Grana/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

type TransactionCreateRequest struct {
	Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryId    string          `json:"category_id" binding:"omitempty,len=26"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
	Tags          []string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=50"`
	Reference     string          `json:"reference" binding:"omitempty,max=100"`
	Date          time.Time       `json:"date" binding:"required"`
}

type TransactionUpdateRequest struct {
	Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryId    string          `json:"category_id" binding:"omitempty,len=26"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
	Tags          []string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=50"`
	Reference     string          `json:"reference" binding:"omitempty,max=100"`
	Date          *time.Time      `json:"date" binding:"omitempty"`
}

type TransactionCreateResponse struct {
	Message     string                  `json:"message"`
	Transaction transaction.Transaction `json:"transaction"`
}

type TransactionSingleResponse struct {
	Transaction *transaction.Transaction `json:"transaction"`
}

type TransactionImportResponse struct {
	Message string                    `json:"message"`
	Result  *transaction.ImportResult `json:"result"`
}
