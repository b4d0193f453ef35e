package entities

import (
	"time"

	"github.com/google/uuid"
)

// Provider names understood by the provisioner and payout manager
const (
	ProviderPaystack = "paystack"
	ProviderProvidus = "providus"
	ProviderMock     = "mock"
)

// VirtualAccount is the dedicated receiving account allocated to one owner per provider
type VirtualAccount struct {
	ID                uuid.UUID `json:"id"`
	Owner             Owner     `json:"owner"`
	Provider          string    `json:"provider"`
	AccountNumber     string    `json:"accountNumber"`
	AccountName       string    `json:"accountName"`
	BankName          string    `json:"bankName,omitempty"`
	BankCode          string    `json:"bankCode,omitempty"`
	ProviderReference string    `json:"providerReference,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CustomerProfile carries the identity details providers require to open an account
type CustomerProfile struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName,omitempty"`
	BVN          string `json:"bvn,omitempty"`
}

// DisplayName is the name printed on a reserved account
func (p CustomerProfile) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	return name
}
