package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils/pagination"
)

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, name, kind, phone, email, tax_no, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (domain.Party, error) {
	var p domain.Party
	err := row.Scan(
		&p.PartyID,
		&p.Name,
		&p.Kind,
		&p.Phone,
		&p.Email,
		&p.TaxNo,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// SaveParty inserts a new party record.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.Kind,
		party.Phone,
		party.Email,
		party.TaxNo,
		party.Notes,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save party %s: %w", party.PartyID, err)
	}
	return nil
}

// FindPartyByID retrieves a party by its unique identifier.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`
	party, err := scanParty(r.Pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("party %s not found", partyID))
		}
		return nil, fmt.Errorf("failed to find party by id %s: %w", partyID, err)
	}
	return &party, nil
}

// ListParties retrieves a token-paginated page of parties.
func (r *PgxPartyRepository) ListParties(ctx context.Context, limit int, nextToken *string) ([]domain.Party, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + partyColumns + ` FROM parties`

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, party_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, party_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Party, error) {
		return scanParty(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan parties: %w", err)
	}

	var token *string
	if len(parties) > limit {
		parties = parties[:limit]
		last := parties[len(parties)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.PartyID)
		token = &t
	}
	return parties, token, nil
}

// UpdateParty updates mutable fields of a party.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	query := `
		UPDATE parties
		SET name = $2, phone = $3, email = $4, tax_no = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE party_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.Phone,
		party.Email,
		party.TaxNo,
		party.Notes,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update party %s: %w", party.PartyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("party %s not found", party.PartyID))
	}
	return nil
}

// DeleteParty removes a party.
func (r *PgxPartyRepository) DeleteParty(ctx context.Context, partyID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM parties WHERE party_id = $1;`, partyID)
	if err != nil {
		return fmt.Errorf("failed to delete party %s: %w", partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("party %s not found", partyID))
	}
	return nil
}
