package repositories

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProjectReader defines read operations for project and milestone data
type ProjectReader interface {
	// FindProjectByID retrieves a project by its unique identifier.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjectsByParty retrieves all projects of a party.
	ListProjectsByParty(ctx context.Context, partyID string) ([]domain.Project, error)

	// FindMilestoneByID retrieves a milestone by its unique identifier.
	FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error)

	// FindMilestonesByProjectID retrieves all milestones of a project ordered
	// by due date.
	FindMilestonesByProjectID(ctx context.Context, projectID string) ([]domain.Milestone, error)
}

// ProjectWriter defines write operations for project and milestone data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject updates mutable fields of a project.
	UpdateProject(ctx context.Context, project domain.Project) error

	// DeleteProject removes a project; milestones cascade at the schema level.
	DeleteProject(ctx context.Context, projectID string) error

	// SaveMilestone persists a new milestone.
	SaveMilestone(ctx context.Context, milestone domain.Milestone) error

	// ApplyMilestonePayment increments a milestone's paid_amount and refreshes
	// its derived status. Milestone payments are not capped.
	ApplyMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error)

	// RevertMilestonePayment decrements a milestone's paid_amount, floored at
	// zero, and refreshes its derived status.
	RevertMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error)

	// DeleteMilestone removes a milestone.
	DeleteMilestone(ctx context.Context, milestoneID string) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
