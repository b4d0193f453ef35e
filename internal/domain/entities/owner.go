package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnerType identifies which kind of party owns a wallet or account
type OwnerType string

const (
	OwnerTypeUser     OwnerType = "user"
	OwnerTypeBusiness OwnerType = "business"
)

// Valid reports whether t is a known owner type
func (t OwnerType) Valid() bool {
	return t == OwnerTypeUser || t == OwnerTypeBusiness
}

// Owner is the (type, id) pair every ledger row is scoped to
type Owner struct {
	Type OwnerType `json:"type"`
	ID   uuid.UUID `json:"id"`
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Type, o.ID)
}
