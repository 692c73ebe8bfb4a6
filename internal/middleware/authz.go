package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/authz"
)

// RouteDescriptor is the (resource, action, domain source) triple a
// route registers once at startup — the "decorator-driven permission
// check" of §9, reimplemented as a lookup table instead of per-request
// reflection. DomainParam names the Fiber path parameter ("schoolId",
// "orgId") Authz reads the domain id from.
type RouteDescriptor struct {
	Resource    authz.Resource
	Action      authz.Action
	Kind        authz.DomainKind
	DomainParam string
}

// Registry is a method+path-template keyed table of RouteDescriptors,
// built once at server startup and consulted on every request by
// Authz. It covers only the routes whose domain is resolvable directly
// from a path parameter (school/organization-scoped collections);
// routes whose domain depends on a loaded record (an assignment's
// classroom's school, say) are authorized by their own service-layer
// gate instead and are never registered here.
type Registry struct {
	entries map[string]RouteDescriptor
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RouteDescriptor)}
}

// Register adds the descriptor for method+path (e.g. "POST
// /api/v1/schools/:schoolId/classrooms"). Fiber's raw route template,
// not the resolved path, is the key.
func (r *Registry) Register(method, path string, d RouteDescriptor) {
	r.entries[method+" "+path] = d
}

func (r *Registry) lookup(method, path string) (RouteDescriptor, bool) {
	d, ok := r.entries[method+" "+path]
	return d, ok
}

// Authz consults registry for the current route and, if a descriptor
// is registered, checks engine.Check(principal, resource, action,
// domain) before letting the request through. Routes with no
// registered descriptor pass through unchecked — they authorize inside
// their own service layer.
func Authz(engine *authz.Engine, registry *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		descriptor, ok := registry.lookup(c.Method(), c.Route().Path)
		if !ok {
			return c.Next()
		}

		principalID, ok := PrincipalID(c)
		if !ok {
			return apperr.Auth("authentication required")
		}

		domainID, err := strconv.ParseUint(c.Params(descriptor.DomainParam), 10, 64)
		if err != nil {
			return apperr.Validation("invalid "+descriptor.DomainParam, nil)
		}

		var domain string
		switch descriptor.Kind {
		case authz.DomainKindOrg:
			domain = authz.OrgDomain(uint(domainID))
		case authz.DomainKindSchool:
			domain = authz.SchoolDomain(uint(domainID))
		default:
			return apperr.Internal(nil)
		}

		if !engine.Check(principalID, descriptor.Resource, descriptor.Action, domain) {
			return apperr.Permission("not authorized for this resource")
		}

		return c.Next()
	}
}
