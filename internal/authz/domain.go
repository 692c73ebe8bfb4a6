package authz

import (
	"fmt"
	"strconv"
	"strings"
)

// DomainKind distinguishes an org-scoped domain from a school-scoped
// domain. Policy rules are written against a DomainKind rather than a
// literal domain string (§4.1: "the org-* pattern ... grants access to
// any org-{X} domain provided the principal holds that role in the
// specific organization").
type DomainKind string

const (
	DomainKindOrg    DomainKind = "org"
	DomainKindSchool DomainKind = "school"
)

// OrgDomain returns the authorization domain string for an organization id.
func OrgDomain(id uint) string {
	return fmt.Sprintf("org-%d", id)
}

// SchoolDomain returns the authorization domain string for a school id.
func SchoolDomain(id uint) string {
	return fmt.Sprintf("school-%d", id)
}

// ParseDomain splits a domain string ("org-7", "school-42") into its
// kind and numeric id. Returns ok=false for a malformed domain.
func ParseDomain(domain string) (kind DomainKind, id uint, ok bool) {
	switch {
	case strings.HasPrefix(domain, "org-"):
		kind = DomainKindOrg
	case strings.HasPrefix(domain, "school-"):
		kind = DomainKindSchool
	default:
		return "", 0, false
	}
	idx := strings.IndexByte(domain, '-')
	n, err := strconv.ParseUint(domain[idx+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return kind, uint(n), true
}
