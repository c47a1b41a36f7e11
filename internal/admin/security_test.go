package admin

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openadm/restadmin/internal/errs"
)

func TestRequireNilAuthorizerAllows(t *testing.T) {
	req := httptest.NewRequest("GET", "/users", nil)
	assert.NoError(t, Require(nil, req, "users", PermView))
}

func TestAllowAll(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/users/1", nil)
	assert.NoError(t, Require(AllowAll{}, req, "users", PermDelete))
}

func TestPolicy(t *testing.T) {
	policy := &Policy{Grants: map[string][]Permission{
		"users": {PermView, PermEdit},
		"*":     {PermView},
	}}
	req := httptest.NewRequest("GET", "/", nil)

	// explicit grants
	assert.NoError(t, policy.Allow(req, "users", PermView))
	assert.NoError(t, policy.Allow(req, "users", PermEdit))

	// actions outside the grant set are denied
	err := policy.Allow(req, "users", PermDelete)
	assert.True(t, errs.IsPermissionDenied(err))

	// wildcard fallback for resources without an entry
	assert.NoError(t, policy.Allow(req, "posts", PermView))
	err = policy.Allow(req, "posts", PermAdd)
	assert.True(t, errs.IsPermissionDenied(err))
}

func TestPolicyNoGrantsDeniesEverything(t *testing.T) {
	policy := &Policy{}
	req := httptest.NewRequest("GET", "/", nil)

	err := policy.Allow(req, "users", PermView)
	assert.True(t, errs.IsPermissionDenied(err))
}
