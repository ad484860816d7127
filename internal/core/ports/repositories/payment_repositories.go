package repositories

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentsByRef retrieves all payments applied against a target,
	// ordered by date.
	FindPaymentsByRef(ctx context.Context, ref domain.PaymentRef) ([]domain.Payment, error)

	// ListPayments retrieves a token-paginated list of payments, newest first.
	ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// RecordPayment persists a payment and its optional linked ledger
	// transaction atomically; neither row can exist without the other.
	RecordPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction) error

	// RecordInstallmentPayment applies the guarded paid_amount increment on
	// the referenced installment and persists the payment row (plus its
	// optional linked ledger transaction) atomically, returning the updated
	// installment. The guard rejects increments past the installment amount
	// with ErrValidation; a failed write rolls the increment back.
	RecordInstallmentPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction, updatedBy string) (*domain.Installment, error)

	// DeletePayment removes a payment row.
	DeletePayment(ctx context.Context, paymentID string) error

	// DeletePaymentsByRef removes all payments applied against a target. Used
	// when the target itself is deleted.
	DeletePaymentsByRef(ctx context.Context, ref domain.PaymentRef) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
