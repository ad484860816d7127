package domain

// PartyKind distinguishes clients from vendors.
type PartyKind string

const (
	PartyClient PartyKind = "CLIENT"
	PartyVendor PartyKind = "VENDOR"
)

// Party is a counterparty record (client or vendor) that debts, projects and
// ledger transactions reference.
type Party struct {
	PartyID string    `json:"partyID"`
	Name    string    `json:"name"`
	Kind    PartyKind `json:"kind"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email"`
	TaxNo   string    `json:"taxNo"`
	Notes   string    `json:"notes"`
	AuditFields
}
