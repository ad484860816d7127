package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayRequest is the common payload for paying an installment, a debt or a
// milestone. CreateTransaction mirrors the payment into the income/expense
// ledger with a 1:1 linked record.
type PayRequest struct {
	Amount            decimal.Decimal      `json:"amount" binding:"required,positivedecimal"`
	Date              time.Time            `json:"date" binding:"required"`
	Method            domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK CARD OTHER"`
	Notes             string               `json:"notes"`
	CreateTransaction bool                 `json:"createTransaction"`
}

// PaymentResponse defines the API shape of a payment.
type PaymentResponse struct {
	PaymentID     string                `json:"paymentID"`
	RelatedType   domain.PaymentRefKind `json:"relatedType"`
	RelatedID     string                `json:"relatedID"`
	TransactionID *string               `json:"transactionID,omitempty"`
	Date          time.Time             `json:"date"`
	Amount        decimal.Decimal       `json:"amount"`
	CurrencyCode  string                `json:"currencyCode"`
	Method        domain.PaymentMethod  `json:"method"`
	Notes         string                `json:"notes"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ListPaymentsResponse is a token-paginated page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		RelatedType:   p.Ref.Kind,
		RelatedID:     p.Ref.ID,
		TransactionID: p.TransactionID,
		Date:          p.Date,
		Amount:        p.Amount,
		CurrencyCode:  p.CurrencyCode,
		Method:        p.Method,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
