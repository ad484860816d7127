package domain

import "github.com/shopspring/decimal"

// KindPrincipalTotal is one (kind, currency) bucket of open principal,
// as grouped by the reporting query.
type KindPrincipalTotal struct {
	Kind         DebtKind        `json:"kind"`
	CurrencyCode string          `json:"currencyCode"`
	Principal    decimal.Decimal `json:"principal"`
}

// MonthlyTypeTotal is one (month, type, currency) transaction sum as grouped
// by the reporting query. The reporting service folds these into TRY.
type MonthlyTypeTotal struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Type         TransactionType `json:"type"`
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"`
}

// MonthlyCashflow is the converted income/expense total for one calendar month.
type MonthlyCashflow struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	IncomeTRY  decimal.Decimal `json:"incomeTRY"`
	ExpenseTRY decimal.Decimal `json:"expenseTRY"`
	NetTRY     decimal.Decimal `json:"netTRY"`
}
