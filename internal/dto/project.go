package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to create a project.
type CreateProjectRequest struct {
	PartyID      string          `json:"partyID" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Budget       decimal.Decimal `json:"budget"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Notes        string          `json:"notes"`
}

// UpdateProjectRequest defines the mutable fields of a project.
type UpdateProjectRequest struct {
	Name   *string               `json:"name,omitempty"`
	Budget *decimal.Decimal      `json:"budget,omitempty"`
	Status *domain.ProjectStatus `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`
	Notes  *string               `json:"notes,omitempty"`
}

// CreateMilestoneRequest defines the data needed to add a milestone.
type CreateMilestoneRequest struct {
	Name    string          `json:"name" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	DueDate time.Time       `json:"dueDate" binding:"required"`
}

// MilestoneResponse defines the API shape of a milestone.
type MilestoneResponse struct {
	MilestoneID  string                 `json:"milestoneID"`
	ProjectID    string                 `json:"projectID"`
	Name         string                 `json:"name"`
	Amount       decimal.Decimal        `json:"amount"`
	CurrencyCode string                 `json:"currencyCode"`
	DueDate      time.Time              `json:"dueDate"`
	Status       domain.MilestoneStatus `json:"status"`
	PaidAmount   decimal.Decimal        `json:"paidAmount"`
}

// ProjectResponse defines the API shape of a project.
type ProjectResponse struct {
	ProjectID    string               `json:"projectID"`
	PartyID      string               `json:"partyID"`
	Name         string               `json:"name"`
	Budget       decimal.Decimal      `json:"budget"`
	CurrencyCode string               `json:"currencyCode"`
	Status       domain.ProjectStatus `json:"status"`
	Notes        string               `json:"notes"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ProjectDetailsResponse is a project with its milestones and paid total.
type ProjectDetailsResponse struct {
	ProjectResponse
	Milestones []MilestoneResponse `json:"milestones"`
	TotalPaid  decimal.Decimal     `json:"totalPaid"`
}

// ToMilestoneResponse converts a domain.Milestone to its DTO.
func ToMilestoneResponse(m *domain.Milestone) MilestoneResponse {
	return MilestoneResponse{
		MilestoneID:  m.MilestoneID,
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		DueDate:      m.DueDate,
		Status:       m.Status,
		PaidAmount:   m.PaidAmount,
	}
}

// ToProjectResponse converts a domain.Project to its DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:    p.ProjectID,
		PartyID:      p.PartyID,
		Name:         p.Name,
		Budget:       p.Budget,
		CurrencyCode: p.CurrencyCode,
		Status:       p.Status,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
	}
}
