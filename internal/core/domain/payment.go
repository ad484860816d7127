package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	MethodCash  PaymentMethod = "CASH"
	MethodBank  PaymentMethod = "BANK"
	MethodCard  PaymentMethod = "CARD"
	MethodOther PaymentMethod = "OTHER"
)

// PaymentRefKind tags the target a payment was applied against.
type PaymentRefKind string

const (
	RefInstallment PaymentRefKind = "INSTALLMENT"
	RefDebt        PaymentRefKind = "DEBT"
	RefMilestone   PaymentRefKind = "MILESTONE"
)

// PaymentRef is the tagged reference a payment is applied against.
// It persists as the (related_type, related_id) column pair; in code it is
// always this value so ledger logic can switch exhaustively on Kind.
type PaymentRef struct {
	Kind PaymentRefKind `json:"kind"`
	ID   string         `json:"id"`
}

// InstallmentRef builds a reference to an installment.
func InstallmentRef(installmentID string) PaymentRef {
	return PaymentRef{Kind: RefInstallment, ID: installmentID}
}

// DebtRef builds a reference to a debt (direct payment, no schedule).
func DebtRef(debtID string) PaymentRef {
	return PaymentRef{Kind: RefDebt, ID: debtID}
}

// MilestoneRef builds a reference to a project milestone.
func MilestoneRef(milestoneID string) PaymentRef {
	return PaymentRef{Kind: RefMilestone, ID: milestoneID}
}

// Payment is an atomic application of money against an installment, a debt or
// a milestone. TransactionID links the optional mirrored income/expense record;
// the linked transaction lives and dies with the payment.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	Ref           PaymentRef      `json:"ref"`
	TransactionID *string         `json:"transactionID,omitempty"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Method        PaymentMethod   `json:"method"`
	Notes         string          `json:"notes"`
	AuditFields
}
