package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
}

// NewProjectService creates a new project service.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo: projectRepo,
		partyRepo:   partyRepo,
		paymentRepo: paymentRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorUserID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.partyRepo.FindPartyByID(ctx, req.PartyID); err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:    uuid.NewString(),
		PartyID:      req.PartyID,
		Name:         req.Name,
		Budget:       req.Budget,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.ProjectActive,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("party_id", project.PartyID))
	return &project, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*dto.ProjectDetailsResponse, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}

	milestones, err := s.projectRepo.FindMilestonesByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones of project %s: %w", projectID, err)
	}

	totalPaid := decimal.Zero
	responses := make([]dto.MilestoneResponse, len(milestones))
	for i := range milestones {
		totalPaid = totalPaid.Add(milestones[i].PaidAmount)
		responses[i] = dto.ToMilestoneResponse(&milestones[i])
	}

	return &dto.ProjectDetailsResponse{
		ProjectResponse: dto.ToProjectResponse(project),
		Milestones:      responses,
		TotalPaid:       totalPaid,
	}, nil
}

func (s *projectService) ListProjectsByParty(ctx context.Context, partyID string) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjectsByParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects of party %s: %w", partyID, err)
	}
	return projects, nil
}

func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, actorUserID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}
	project.LastUpdatedAt = time.Now().UTC()
	project.LastUpdatedBy = actorUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}
	return project, nil
}

// DeleteProject removes a project with its milestones and their payment
// history. The polymorphic payment reference carries no foreign key, so the
// cleanup happens here.
func (s *projectService) DeleteProject(ctx context.Context, projectID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestones, err := s.projectRepo.FindMilestonesByProjectID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load milestones of project %s: %w", projectID, err)
	}
	for _, m := range milestones {
		if err := s.paymentRepo.DeletePaymentsByRef(ctx, domain.MilestoneRef(m.MilestoneID)); err != nil {
			return fmt.Errorf("failed to delete payments of milestone %s: %w", m.MilestoneID, err)
		}
	}

	if err := s.projectRepo.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}

	logger.Info("Project deleted", slog.String("project_id", projectID), slog.String("deleted_by", actorUserID))
	return nil
}

func (s *projectService) CreateMilestone(ctx context.Context, projectID string, req dto.CreateMilestoneRequest, actorUserID string) (*domain.Milestone, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: milestone amount must be positive", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}

	now := time.Now().UTC()
	milestone := domain.Milestone{
		MilestoneID:  uuid.NewString(),
		ProjectID:    projectID,
		Name:         req.Name,
		Amount:       req.Amount.Round(2),
		CurrencyCode: project.CurrencyCode,
		DueDate:      req.DueDate,
		Status:       domain.MilestonePending,
		PaidAmount:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.projectRepo.SaveMilestone(ctx, milestone); err != nil {
		return nil, fmt.Errorf("failed to save milestone: %w", err)
	}
	return &milestone, nil
}

func (s *projectService) DeleteMilestone(ctx context.Context, milestoneID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.paymentRepo.DeletePaymentsByRef(ctx, domain.MilestoneRef(milestoneID)); err != nil {
		return fmt.Errorf("failed to delete payments of milestone %s: %w", milestoneID, err)
	}
	if err := s.projectRepo.DeleteMilestone(ctx, milestoneID); err != nil {
		return fmt.Errorf("failed to delete milestone %s: %w", milestoneID, err)
	}

	logger.Info("Milestone deleted", slog.String("milestone_id", milestoneID), slog.String("deleted_by", actorUserID))
	return nil
}
