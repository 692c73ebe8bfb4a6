package authz

import "github.com/duotopia/backend/internal/apperr"

func errInvalidDomain(domain string) error {
	return apperr.Validation("invalid domain: "+domain, nil)
}

func errRoleDomainMismatch(role Role, kind DomainKind) error {
	return apperr.Validation("role "+string(role)+" cannot be granted on a "+string(kind)+" domain", nil)
}

func errSecondOwner(domain string) error {
	return apperr.Conflict("organization " + domain + " already has an active org_owner")
}
