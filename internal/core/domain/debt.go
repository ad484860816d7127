package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtKind distinguishes money we owe from money owed to us.
type DebtKind string

const (
	KindDebt       DebtKind = "DEBT"
	KindReceivable DebtKind = "RECEIVABLE"
)

// DebtStatus is derived from installment payment state, never set directly by callers.
type DebtStatus string

const (
	DebtOpen   DebtStatus = "OPEN"
	DebtClosed DebtStatus = "CLOSED"
)

// Debt represents a single obligation record, either owed-by-us or owed-to-us.
// Status is CLOSED iff the sum of paid amounts across its installments reaches
// the principal; it is recomputed after every payment, reversal and
// installment deletion.
type Debt struct {
	DebtID          string          `json:"debtID"`
	Kind            DebtKind        `json:"kind"`
	PartyID         string          `json:"partyID"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	CurrencyCode    string          `json:"currencyCode"`
	VATRate         decimal.Decimal `json:"vatRate"` // percent
	StartDate       time.Time       `json:"startDate"`
	DueDate         time.Time       `json:"dueDate"`
	Status          DebtStatus      `json:"status"`
	Notes           string          `json:"notes"`
	AuditFields
}
