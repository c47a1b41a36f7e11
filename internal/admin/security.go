package admin

import (
	"fmt"
	"net/http"

	"github.com/openadm/restadmin/internal/errs"
)

// Permission is one of the four actions a frontend user may perform
// against a resource.
type Permission string

const (
	PermView   Permission = "view"
	PermAdd    Permission = "add"
	PermEdit   Permission = "edit"
	PermDelete Permission = "delete"
)

// Authorizer decides whether a request may perform an action on a resource.
// Implementations typically read identity from the request (session cookie,
// bearer token); authentication itself is out of scope here.
type Authorizer interface {
	Allow(r *http.Request, resource string, p Permission) error
}

// Require short-circuits a handler with a permission error before any
// database access. A nil Authorizer allows everything.
func Require(a Authorizer, r *http.Request, resource string, p Permission) error {
	if a == nil {
		return nil
	}
	return a.Allow(r, resource, p)
}

// AllowAll permits every action. The default for local admin panels.
type AllowAll struct{}

func (AllowAll) Allow(*http.Request, string, Permission) error { return nil }

// Policy grants a fixed permission set per resource name. The "*" key
// applies to resources without an explicit entry. A resource with no
// matching entry denies everything.
type Policy struct {
	Grants map[string][]Permission
}

func (p *Policy) Allow(_ *http.Request, resource string, perm Permission) error {
	grants, ok := p.Grants[resource]
	if !ok {
		grants = p.Grants["*"]
	}
	for _, g := range grants {
		if g == perm {
			return nil
		}
	}
	return errs.New(errs.ErrKindPermissionDenied,
		fmt.Sprintf("%s permission required for %s", perm, resource))
}
