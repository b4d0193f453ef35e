package entities

import "github.com/google/uuid"

// Capability is a granted permission checked at the payout manager boundary
type Capability string

const (
	CapabilityApprovePayouts Capability = "payouts:approve"
	CapabilityPayPayouts     Capability = "payouts:pay"
	CapabilityAuditLedger    Capability = "ledger:audit"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	ID           uuid.UUID
	Owner        Owner
	Role         string
	Capabilities map[Capability]bool
}

// NewActor builds an actor from the raw capability strings carried in a token
func NewActor(id uuid.UUID, owner Owner, role string, caps []string) Actor {
	set := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		set[Capability(c)] = true
	}
	return Actor{ID: id, Owner: owner, Role: role, Capabilities: set}
}

// Can reports whether the actor was granted c
func (a Actor) Can(c Capability) bool {
	return a.Capabilities[c]
}
