// Package testutil provides shared helpers for service and integration tests.
package testutil

import (
	"context"
	"time"

	id "aurum/pkg/domain"
	"aurum/pkg/requestcontext"
)

// AuthedContext returns a context carrying a full identity, the way the auth
// middleware stamps it for real requests.
func AuthedContext(tenantID id.TenantID, userID id.UserID, role id.Role) context.Context {
	return requestcontext.WithIdentity(context.Background(), tenantID, userID, role)
}

// AuthedContextAt pins the request clock as well, for tests that assert on
// stamped timestamps.
func AuthedContextAt(tenantID id.TenantID, userID id.UserID, role id.Role, at time.Time) context.Context {
	return requestcontext.WithTime(AuthedContext(tenantID, userID, role), at)
}
