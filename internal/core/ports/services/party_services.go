package services

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// PartySvcFacade defines client/vendor record operations.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, actorUserID string) (*domain.Party, error)
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, params dto.ListParams) (*dto.ListPartiesResponse, error)
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Party, error)
	DeleteParty(ctx context.Context, partyID string, actorUserID string) error
}
