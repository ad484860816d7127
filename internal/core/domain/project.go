package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus tracks the overall lifecycle of a client project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Project groups milestones for a party.
type Project struct {
	ProjectID    string          `json:"projectID"`
	PartyID      string          `json:"partyID"`
	Name         string          `json:"name"`
	Budget       decimal.Decimal `json:"budget"`
	CurrencyCode string          `json:"currencyCode"`
	Status       ProjectStatus   `json:"status"`
	Notes        string          `json:"notes"`
	AuditFields
}

// MilestoneStatus mirrors installment semantics for project billing.
type MilestoneStatus string

const (
	MilestonePending MilestoneStatus = "PENDING"
	MilestonePartial MilestoneStatus = "PARTIAL"
	MilestonePaid    MilestoneStatus = "PAID"
)

// Milestone is a billable stage of a project. Payments reference it via
// MilestoneRef.
type Milestone struct {
	MilestoneID  string          `json:"milestoneID"`
	ProjectID    string          `json:"projectID"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	DueDate      time.Time       `json:"dueDate"`
	Status       MilestoneStatus `json:"status"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	AuditFields
}
