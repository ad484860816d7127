package repositories

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// PartyReader defines read operations for party data
type PartyReader interface {
	// FindPartyByID retrieves a party by its unique identifier.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// ListParties retrieves a token-paginated list of parties by name.
	ListParties(ctx context.Context, limit int, nextToken *string) ([]domain.Party, *string, error)
}

// PartyWriter defines write operations for party data
type PartyWriter interface {
	// SaveParty persists a new party.
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty updates mutable fields of a party.
	UpdateParty(ctx context.Context, party domain.Party) error

	// DeleteParty removes a party.
	DeleteParty(ctx context.Context, partyID string) error
}

// PartyRepositoryFacade combines all party-related repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
