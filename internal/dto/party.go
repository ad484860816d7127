package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// CreatePartyRequest defines the data needed to create a client/vendor record.
type CreatePartyRequest struct {
	Name  string           `json:"name" binding:"required"`
	Kind  domain.PartyKind `json:"kind" binding:"required,oneof=CLIENT VENDOR"`
	Phone string           `json:"phone"`
	Email string           `json:"email" binding:"omitempty,email"`
	TaxNo string           `json:"taxNo"`
	Notes string           `json:"notes"`
}

// UpdatePartyRequest defines the mutable fields of a party.
type UpdatePartyRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	TaxNo *string `json:"taxNo,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// PartyResponse defines the API shape of a party.
type PartyResponse struct {
	PartyID   string           `json:"partyID"`
	Name      string           `json:"name"`
	Kind      domain.PartyKind `json:"kind"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email"`
	TaxNo     string           `json:"taxNo"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ListPartiesResponse is a token-paginated page of parties.
type ListPartiesResponse struct {
	Parties   []PartyResponse `json:"parties"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToPartyResponse converts a domain.Party to its DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:   p.PartyID,
		Name:      p.Name,
		Kind:      p.Kind,
		Phone:     p.Phone,
		Email:     p.Email,
		TaxNo:     p.TaxNo,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

// ToPartyResponses converts a slice of domain parties.
func ToPartyResponses(parties []domain.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return responses
}
