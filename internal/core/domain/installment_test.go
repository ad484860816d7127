package domain_test

import (
	"testing"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusForPaid(t *testing.T) {
	amount := decimal.RequireFromString("2000.00")

	tests := []struct {
		name string
		paid string
		want domain.InstallmentStatus
	}{
		{name: "nothing paid", paid: "0", want: domain.InstallmentPending},
		{name: "negative guard", paid: "-1", want: domain.InstallmentPending},
		{name: "one cent paid", paid: "0.01", want: domain.InstallmentPartial},
		{name: "almost paid", paid: "1999.99", want: domain.InstallmentPartial},
		{name: "exactly paid", paid: "2000.00", want: domain.InstallmentPaid},
		{name: "overshoot still paid", paid: "2000.01", want: domain.InstallmentPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.StatusForPaid(decimal.RequireFromString(tt.paid), amount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstallment_Remaining(t *testing.T) {
	inst := domain.Installment{
		Amount:     decimal.RequireFromString("1500.00"),
		PaidAmount: decimal.RequireFromString("499.50"),
	}
	assert.True(t, inst.Remaining().Equal(decimal.RequireFromString("1000.50")))
}
