package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger transaction.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction is one income or expense record in the bookkeeping ledger.
// Payment-linked transactions are created and deleted by the payment ledger
// and are never edited directly.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Category      string          `json:"category"`
	PartyID       *string         `json:"partyID,omitempty"`
	Description   string          `json:"description"`
	AuditFields
}
