package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils"
)

const exportPageSize = 500

// reportingService builds the cross-entity aggregates and CSV exports the
// reporting screens consume. All TRY folding goes through the converter so
// degraded-rate behavior stays uniform.
type reportingService struct {
	debtSvc         portssvc.DebtReaderSvc
	transactionRepo portsrepo.TransactionRepositoryFacade
	currencySvc     portssvc.CurrencyConverterSvc
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	debtSvc portssvc.DebtReaderSvc,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	currencySvc portssvc.CurrencyConverterSvc,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		debtSvc:         debtSvc,
		transactionRepo: transactionRepo,
		currencySvc:     currencySvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetDebtSummary(ctx context.Context) (*dto.DebtSummaryResponse, error) {
	return s.debtSvc.GetSummaryByCurrency(ctx)
}

// GetMonthlyCashflow folds per-currency monthly income/expense totals into
// TRY. Each month's totals convert at that month's last day so the figures
// match the rates that applied back then.
func (s *reportingService) GetMonthlyCashflow(ctx context.Context, from, to time.Time) ([]domain.MonthlyCashflow, error) {
	totals, err := s.transactionRepo.MonthlyTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}

	type monthKey struct {
		year  int
		month int
	}
	months := map[monthKey]*domain.MonthlyCashflow{}

	for _, t := range totals {
		rateDate := time.Date(t.Year, time.Month(t.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
		conv, err := s.currencySvc.ConvertToBase(ctx, t.Total, t.CurrencyCode, rateDate)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s total for %d-%02d: %w", t.CurrencyCode, t.Year, t.Month, err)
		}

		key := monthKey{t.Year, t.Month}
		entry, ok := months[key]
		if !ok {
			entry = &domain.MonthlyCashflow{
				Year:       t.Year,
				Month:      t.Month,
				IncomeTRY:  decimal.Zero,
				ExpenseTRY: decimal.Zero,
			}
			months[key] = entry
		}
		switch t.Type {
		case domain.Income:
			entry.IncomeTRY = entry.IncomeTRY.Add(conv.ConvertedAmount)
		case domain.Expense:
			entry.ExpenseTRY = entry.ExpenseTRY.Add(conv.ConvertedAmount)
		}
	}

	result := make([]domain.MonthlyCashflow, 0, len(months))
	for _, entry := range months {
		entry.NetTRY = entry.IncomeTRY.Sub(entry.ExpenseTRY)
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// ExportTransactionsCSV streams the transactions in the date range as CSV,
// one converted TRY column per line. Pages through the repository so exports
// of any size stay bounded in memory.
func (s *reportingService) ExportTransactionsCSV(ctx context.Context, from, to time.Time, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "type", "category", "amount", "currency", "amount_try", "party_id", "description"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var nextToken *string
	for {
		txns, token, err := s.transactionRepo.ListTransactions(ctx, from, to, exportPageSize, nextToken)
		if err != nil {
			return fmt.Errorf("failed to list transactions for export: %w", err)
		}

		for _, txn := range txns {
			conv, err := s.currencySvc.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode, txn.Date)
			if err != nil {
				return fmt.Errorf("failed to convert transaction %s: %w", txn.TransactionID, err)
			}
			partyID := ""
			if txn.PartyID != nil {
				partyID = *txn.PartyID
			}
			record := []string{
				txn.Date.Format("2006-01-02"),
				string(txn.Type),
				txn.Category,
				utils.FormatMoney(txn.Amount),
				txn.CurrencyCode,
				utils.FormatMoney(conv.ConvertedAmount),
				partyID,
				txn.Description,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}

		if token == nil {
			break
		}
		nextToken = token
	}

	cw.Flush()
	return cw.Error()
}

// ExportDebtSummaryCSV streams the per-currency debt summary as CSV.
func (s *reportingService) ExportDebtSummaryCSV(ctx context.Context, w io.Writer) error {
	summary, err := s.debtSvc.GetSummaryByCurrency(ctx)
	if err != nil {
		return fmt.Errorf("failed to build debt summary: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"side", "currency", "open_principal"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	writeBuckets := func(side string, buckets dto.CurrencyBuckets) error {
		currencies := make([]string, 0, len(buckets.ByCurrency))
		for code := range buckets.ByCurrency {
			currencies = append(currencies, code)
		}
		sort.Strings(currencies)
		for _, code := range currencies {
			if err := cw.Write([]string{side, code, utils.FormatMoney(buckets.ByCurrency[code])}); err != nil {
				return err
			}
		}
		return cw.Write([]string{side, domain.BaseCurrencyCode + "_TOTAL", utils.FormatMoney(buckets.TotalTRY)})
	}

	if err := writeBuckets("debt", summary.Debt); err != nil {
		return fmt.Errorf("failed to write debt buckets: %w", err)
	}
	if err := writeBuckets("receivable", summary.Receivable); err != nil {
		return fmt.Errorf("failed to write receivable buckets: %w", err)
	}
	if err := cw.Write([]string{"net", domain.BaseCurrencyCode, utils.FormatMoney(summary.NetPosition)}); err != nil {
		return fmt.Errorf("failed to write net position: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
