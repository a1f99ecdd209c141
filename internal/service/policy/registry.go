package policy

import (
	"github.com/jwalitptl/sso-api/internal/model"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
)

// Registry maps a credential type to its security policy. Policies are
// static configuration resolved once at startup; the registry is
// read-only afterwards.
type Registry struct {
	policies map[model.CredentialType]model.SecurityPolicy
}

// DefaultPolicies returns the built-in policy set.
func DefaultPolicies() map[model.CredentialType]model.SecurityPolicy {
	return map[model.CredentialType]model.SecurityPolicy{
		model.CredentialTypeStandard: {
			MinLength:          8,
			MinAlpha:           1,
			MinNumeric:         1,
			MinNonAlphaNumeric: 0,
			MinLifetimeDays:    0,
		},
		model.CredentialTypeAdmin: {
			MinLength:          12,
			MinAlpha:           2,
			MinNumeric:         2,
			MinNonAlphaNumeric: 1,
			MinLifetimeDays:    90,
		},
	}
}

// NewRegistry builds a registry from the defaults merged with any
// overrides from configuration. Override keys are credential type
// names.
func NewRegistry(overrides map[string]model.SecurityPolicy) *Registry {
	policies := DefaultPolicies()
	for name, pol := range overrides {
		policies[model.CredentialType(name)] = pol
	}
	return &Registry{policies: policies}
}

// PolicyFor resolves the policy for a credential type.
func (r *Registry) PolicyFor(credentialType model.CredentialType) (model.SecurityPolicy, error) {
	pol, ok := r.policies[credentialType]
	if !ok {
		return model.SecurityPolicy{}, apperrors.UnknownPolicy(string(credentialType))
	}
	return pol, nil
}
