package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type partyService struct {
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, actorUserID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	party := domain.Party{
		PartyID: uuid.NewString(),
		Name:    req.Name,
		Kind:    req.Kind,
		Phone:   req.Phone,
		Email:   req.Email,
		TaxNo:   req.TaxNo,
		Notes:   req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		return nil, fmt.Errorf("failed to save party: %w", err)
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID), slog.String("kind", string(party.Kind)))
	return &party, nil
}

func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, params dto.ListParams) (*dto.ListPartiesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	parties, nextToken, err := s.partyRepo.ListParties(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return &dto.ListPartiesResponse{
		Parties:   dto.ToPartyResponses(parties),
		NextToken: nextToken,
	}, nil
}

func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.TaxNo != nil {
		party.TaxNo = *req.TaxNo
	}
	if req.Notes != nil {
		party.Notes = *req.Notes
	}
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = actorUserID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		return nil, fmt.Errorf("failed to update party %s: %w", partyID, err)
	}
	return party, nil
}

func (s *partyService) DeleteParty(ctx context.Context, partyID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.partyRepo.DeleteParty(ctx, partyID); err != nil {
		return fmt.Errorf("failed to delete party %s: %w", partyID, err)
	}

	logger.Info("Party deleted", slog.String("party_id", partyID), slog.String("deleted_by", actorUserID))
	return nil
}
