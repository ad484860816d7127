package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest defines the data needed to create a new debt or receivable.
type CreateDebtRequest struct {
	Kind            domain.DebtKind `json:"kind" binding:"required,oneof=DEBT RECEIVABLE"`
	PartyID         string          `json:"partyID" binding:"required"`
	PrincipalAmount decimal.Decimal `json:"principalAmount" binding:"required,positivedecimal"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	VATRate         decimal.Decimal `json:"vatRate"`
	StartDate       time.Time       `json:"startDate" binding:"required"`
	DueDate         time.Time       `json:"dueDate" binding:"required"`
	Notes           string          `json:"notes"`
}

// UpdateDebtRequest defines the mutable fields of a debt. Principal and
// currency stay fixed once installments may exist against them.
type UpdateDebtRequest struct {
	PartyID *string          `json:"partyID,omitempty"`
	VATRate *decimal.Decimal `json:"vatRate,omitempty"`
	DueDate *time.Time       `json:"dueDate,omitempty"`
	Notes   *string          `json:"notes,omitempty"`
}

// DebtResponse defines the API shape of a debt record.
type DebtResponse struct {
	DebtID          string            `json:"debtID"`
	Kind            domain.DebtKind   `json:"kind"`
	PartyID         string            `json:"partyID"`
	PrincipalAmount decimal.Decimal   `json:"principalAmount"`
	CurrencyCode    string            `json:"currencyCode"`
	VATRate         decimal.Decimal   `json:"vatRate"`
	StartDate       time.Time         `json:"startDate"`
	DueDate         time.Time         `json:"dueDate"`
	Status          domain.DebtStatus `json:"status"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	CreatedBy       string            `json:"createdBy"`
}

// DebtDetailsResponse is the debt with its installments and derived figures.
type DebtDetailsResponse struct {
	DebtResponse
	Installments      []InstallmentResponse `json:"installments"`
	TotalPaid         decimal.Decimal       `json:"totalPaid"`
	Remaining         decimal.Decimal       `json:"remaining"`
	PaymentPercentage decimal.Decimal       `json:"paymentPercentage"`
	PrincipalTRY      decimal.Decimal       `json:"principalTRY"`
	RateWarning       string                `json:"rateWarning,omitempty"`
}

// ListDebtsResponse is a token-paginated page of debts.
type ListDebtsResponse struct {
	Debts     []DebtResponse `json:"debts"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToDebtResponse converts a domain.Debt to DebtResponse DTO.
func ToDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		DebtID:          d.DebtID,
		Kind:            d.Kind,
		PartyID:         d.PartyID,
		PrincipalAmount: d.PrincipalAmount,
		CurrencyCode:    d.CurrencyCode,
		VATRate:         d.VATRate,
		StartDate:       d.StartDate,
		DueDate:         d.DueDate,
		Status:          d.Status,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDebtResponses converts a slice of domain debts.
func ToDebtResponses(debts []domain.Debt) []DebtResponse {
	responses := make([]DebtResponse, len(debts))
	for i := range debts {
		responses[i] = ToDebtResponse(&debts[i])
	}
	return responses
}

// CurrencyBuckets is one side (debt or receivable) of the summary: open
// principal per currency plus the TRY-folded total.
type CurrencyBuckets struct {
	ByCurrency map[string]decimal.Decimal `json:"byCurrency"`
	TotalTRY   decimal.Decimal            `json:"totalTRY"`
}

// DebtSummaryResponse is the report-facing aggregate over open debts.
type DebtSummaryResponse struct {
	Debt        CurrencyBuckets `json:"debt"`
	Receivable  CurrencyBuckets `json:"receivable"`
	NetPosition decimal.Decimal `json:"netPosition"`
	RateWarning string          `json:"rateWarning,omitempty"`
}
