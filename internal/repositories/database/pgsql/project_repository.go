package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
)

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project and milestone data.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, party_id, name, budget, currency_code, status, notes, created_at, created_by, last_updated_at, last_updated_by`
const milestoneColumns = `milestone_id, project_id, name, amount, currency_code, due_date, status, paid_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ProjectID,
		&p.PartyID,
		&p.Name,
		&p.Budget,
		&p.CurrencyCode,
		&p.Status,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func scanMilestone(row pgx.Row) (domain.Milestone, error) {
	var m domain.Milestone
	err := row.Scan(
		&m.MilestoneID,
		&m.ProjectID,
		&m.Name,
		&m.Amount,
		&m.CurrencyCode,
		&m.DueDate,
		&m.Status,
		&m.PaidAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveProject inserts a new project record.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		project.ProjectID,
		project.PartyID,
		project.Name,
		project.Budget,
		project.CurrencyCode,
		project.Status,
		project.Notes,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ProjectID, err)
	}
	return nil
}

// FindProjectByID retrieves a project by its unique identifier.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	project, err := scanProject(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		return nil, fmt.Errorf("failed to find project by id %s: %w", projectID, err)
	}
	return &project, nil
}

// ListProjectsByParty retrieves all projects of a party.
func (r *PgxProjectRepository) ListProjectsByParty(ctx context.Context, partyID string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE party_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects of party %s: %w", partyID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Project, error) {
		return scanProject(row)
	})
}

// UpdateProject updates mutable fields of a project.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	query := `
		UPDATE projects
		SET name = $2, budget = $3, status = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE project_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		project.ProjectID,
		project.Name,
		project.Budget,
		project.Status,
		project.Notes,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", project.ProjectID))
	}
	return nil
}

// DeleteProject removes a project; milestones cascade via the schema.
func (r *PgxProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM projects WHERE project_id = $1;`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
	}
	return nil
}

// FindMilestoneByID retrieves a milestone by its unique identifier.
func (r *PgxProjectRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE milestone_id = $1;`
	milestone, err := scanMilestone(r.Pool.QueryRow(ctx, query, milestoneID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
		}
		return nil, fmt.Errorf("failed to find milestone by id %s: %w", milestoneID, err)
	}
	return &milestone, nil
}

// FindMilestonesByProjectID retrieves all milestones of a project ordered by due date.
func (r *PgxProjectRepository) FindMilestonesByProjectID(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE project_id = $1 ORDER BY due_date, milestone_id;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones of project %s: %w", projectID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Milestone, error) {
		return scanMilestone(row)
	})
}

// SaveMilestone inserts a new milestone record.
func (r *PgxProjectRepository) SaveMilestone(ctx context.Context, milestone domain.Milestone) error {
	query := `
		INSERT INTO milestones (` + milestoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		milestone.MilestoneID,
		milestone.ProjectID,
		milestone.Name,
		milestone.Amount,
		milestone.CurrencyCode,
		milestone.DueDate,
		milestone.Status,
		milestone.PaidAmount,
		milestone.CreatedAt,
		milestone.CreatedBy,
		milestone.LastUpdatedAt,
		milestone.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save milestone %s: %w", milestone.MilestoneID, err)
	}
	return nil
}

// ApplyMilestonePayment increments paid_amount and refreshes the derived status.
func (r *PgxProjectRepository) ApplyMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error) {
	query := `
		UPDATE milestones
		SET paid_amount = paid_amount + $2,
			status = CASE
				WHEN paid_amount + $2 >= amount THEN 'PAID'
				WHEN paid_amount + $2 > 0 THEN 'PARTIAL'
				ELSE 'PENDING'
			END,
			last_updated_at = now(),
			last_updated_by = $3
		WHERE milestone_id = $1
		RETURNING ` + milestoneColumns + `;
	`
	milestone, err := scanMilestone(r.Pool.QueryRow(ctx, query, milestoneID, amount, updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
		}
		return nil, fmt.Errorf("failed to apply payment to milestone %s: %w", milestoneID, err)
	}
	return &milestone, nil
}

// RevertMilestonePayment decrements paid_amount, floored at zero, and
// refreshes the derived status.
func (r *PgxProjectRepository) RevertMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error) {
	query := `
		UPDATE milestones
		SET paid_amount = GREATEST(paid_amount - $2, 0),
			status = CASE
				WHEN GREATEST(paid_amount - $2, 0) >= amount THEN 'PAID'
				WHEN GREATEST(paid_amount - $2, 0) > 0 THEN 'PARTIAL'
				ELSE 'PENDING'
			END,
			last_updated_at = now(),
			last_updated_by = $3
		WHERE milestone_id = $1
		RETURNING ` + milestoneColumns + `;
	`
	milestone, err := scanMilestone(r.Pool.QueryRow(ctx, query, milestoneID, amount, updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
		}
		return nil, fmt.Errorf("failed to revert payment on milestone %s: %w", milestoneID, err)
	}
	return &milestone, nil
}

// DeleteMilestone removes a milestone.
func (r *PgxProjectRepository) DeleteMilestone(ctx context.Context, milestoneID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM milestones WHERE milestone_id = $1;`, milestoneID)
	if err != nil {
		return fmt.Errorf("failed to delete milestone %s: %w", milestoneID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("milestone %s not found", milestoneID))
	}
	return nil
}
