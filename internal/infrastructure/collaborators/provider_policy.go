package collaborators

import (
	"payledger.backend/internal/config"
	"payledger.backend/internal/domain/entities"
)

// ConfigProviderPolicy picks the dedicated account provider for an owner
type ConfigProviderPolicy struct {
	cfg config.ProviderPolicyConfig
}

func NewConfigProviderPolicy(cfg config.ProviderPolicyConfig) *ConfigProviderPolicy {
	return &ConfigProviderPolicy{cfg: cfg}
}

// Select prefers a per-owner override, then the default for the owner type
func (p *ConfigProviderPolicy) Select(owner entities.Owner) string {
	if provider, ok := p.cfg.Overrides[owner.ID.String()]; ok {
		return provider
	}
	if owner.Type == entities.OwnerTypeBusiness {
		return p.cfg.BusinessProvider
	}
	return p.cfg.UserProvider
}
