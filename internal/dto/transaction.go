package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data for a new income/expense record.
type CreateTransactionRequest struct {
	Type         domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Date         time.Time              `json:"date" binding:"required"`
	Amount       decimal.Decimal        `json:"amount" binding:"required,positivedecimal"`
	CurrencyCode string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	Category     string                 `json:"category"`
	PartyID      *string                `json:"partyID,omitempty"`
	Description  string                 `json:"description"`
}

// ListTransactionsParams filters the transaction listing.
type ListTransactionsParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	ListParams
}

// TransactionResponse defines the API shape of a ledger transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Type          domain.TransactionType `json:"type"`
	Date          time.Time              `json:"date"`
	Amount        decimal.Decimal        `json:"amount"`
	CurrencyCode  string                 `json:"currencyCode"`
	Category      string                 `json:"category"`
	PartyID       *string                `json:"partyID,omitempty"`
	Description   string                 `json:"description"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
}

// ListTransactionsResponse is a token-paginated page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Type:          t.Type,
		Date:          t.Date,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		Category:      t.Category,
		PartyID:       t.PartyID,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
