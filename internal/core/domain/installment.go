package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is computed purely from paid amount vs amount.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPartial InstallmentStatus = "PARTIAL"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// Installment is one scheduled slice of a debt's principal with its own
// due date and payment state. PaidAmount never exceeds Amount.
type Installment struct {
	InstallmentID string            `json:"installmentID"`
	DebtID        string            `json:"debtID"`
	DueDate       time.Time         `json:"dueDate"`
	Amount        decimal.Decimal   `json:"amount"`
	CurrencyCode  string            `json:"currencyCode"`
	Status        InstallmentStatus `json:"status"`
	PaidAmount    decimal.Decimal   `json:"paidAmount"`
	Notes         string            `json:"notes"`
	AuditFields
}

// StatusForPaid derives the installment status from a paid amount.
// paid == 0 -> PENDING; 0 < paid < amount -> PARTIAL; paid >= amount -> PAID.
func StatusForPaid(paid, amount decimal.Decimal) InstallmentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return InstallmentPending
	case paid.GreaterThanOrEqual(amount):
		return InstallmentPaid
	default:
		return InstallmentPartial
	}
}

// Remaining returns the unpaid portion of the installment.
func (i Installment) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}
