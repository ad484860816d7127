package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInstallmentsRequest asks the scheduler to split a debt's principal.
type CreateInstallmentsRequest struct {
	Count     int        `json:"count" binding:"required"`
	StartDate *time.Time `json:"startDate,omitempty"`
}

// UpdateInstallmentRequest defines the mutable fields of an installment.
type UpdateInstallmentRequest struct {
	DueDate *time.Time `json:"dueDate,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

// InstallmentResponse defines the API shape of an installment.
type InstallmentResponse struct {
	InstallmentID string                   `json:"installmentID"`
	DebtID        string                   `json:"debtID"`
	DueDate       time.Time                `json:"dueDate"`
	Amount        decimal.Decimal          `json:"amount"`
	CurrencyCode  string                   `json:"currencyCode"`
	Status        domain.InstallmentStatus `json:"status"`
	PaidAmount    decimal.Decimal          `json:"paidAmount"`
	Notes         string                   `json:"notes"`
}

// CreateInstallmentsResponse reports the batch outcome. Success is false when
// only part of the batch made it in; the created rows are still returned.
type CreateInstallmentsResponse struct {
	Success      bool                  `json:"success"`
	Created      int                   `json:"created"`
	Installments []InstallmentResponse `json:"installments"`
}

// ToInstallmentResponse converts a domain.Installment to its DTO.
func ToInstallmentResponse(i *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID: i.InstallmentID,
		DebtID:        i.DebtID,
		DueDate:       i.DueDate,
		Amount:        i.Amount,
		CurrencyCode:  i.CurrencyCode,
		Status:        i.Status,
		PaidAmount:    i.PaidAmount,
		Notes:         i.Notes,
	}
}

// ToInstallmentResponses converts a slice of domain installments.
func ToInstallmentResponses(installments []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i := range installments {
		responses[i] = ToInstallmentResponse(&installments[i])
	}
	return responses
}
