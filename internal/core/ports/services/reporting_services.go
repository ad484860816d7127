package services

import (
	"context"
	"io"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// ReportingSvcFacade exposes report-facing aggregates and CSV export.
type ReportingSvcFacade interface {
	// GetDebtSummary is the report-facing debt/receivable aggregate.
	GetDebtSummary(ctx context.Context) (*dto.DebtSummaryResponse, error)

	// GetMonthlyCashflow folds income/expense totals per month into TRY.
	GetMonthlyCashflow(ctx context.Context, from, to time.Time) ([]domain.MonthlyCashflow, error)

	// ExportTransactionsCSV streams the transactions in the date range as CSV.
	ExportTransactionsCSV(ctx context.Context, from, to time.Time, w io.Writer) error

	// ExportDebtSummaryCSV streams the debt summary as CSV.
	ExportDebtSummaryCSV(ctx context.Context, w io.Writer) error
}
