package services

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// ProjectSvcFacade defines project and milestone operations.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorUserID string) (*domain.Project, error)
	GetProjectByID(ctx context.Context, projectID string) (*dto.ProjectDetailsResponse, error)
	ListProjectsByParty(ctx context.Context, partyID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, actorUserID string) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID string, actorUserID string) error

	CreateMilestone(ctx context.Context, projectID string, req dto.CreateMilestoneRequest, actorUserID string) (*domain.Milestone, error)
	DeleteMilestone(ctx context.Context, milestoneID string, actorUserID string) error
}
