// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services consume them. Keeping the package
// free of net/http lets domain code read the authenticated identity without
// pulling in transport concerns.
//
// Usage in services:
//
//	tenantID := requestcontext.TenantID(ctx)
//	actor := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithIdentity(ctx, "TENANT-A", "USER-001", domain.RoleAdmin)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "aurum/pkg/domain"
)

type (
	tenantIDKey    struct{}
	userIDKey      struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// TenantID retrieves the authenticated tenant from the context.
// Returns the zero value if not set.
func TenantID(ctx context.Context) id.TenantID {
	if t, ok := ctx.Value(tenantIDKey{}).(id.TenantID); ok {
		return t
	}
	return ""
}

// UserID retrieves the authenticated actor from the context.
func UserID(ctx context.Context) id.UserID {
	if u, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return u
	}
	return ""
}

// Role retrieves the actor's role. Defaults to the least-privileged role so
// a missing value can never widen access.
func Role(ctx context.Context) id.Role {
	if r, ok := ctx.Value(roleKey{}).(id.Role); ok {
		return r
	}
	return id.RoleStaff
}

// WithIdentity injects the full authenticated identity into the context.
func WithIdentity(ctx context.Context, tenantID id.TenantID, userID id.UserID, role id.Role) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey{}, tenantID)
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	return context.WithValue(ctx, roleKey{}, role)
}

// RequestID retrieves the correlation id assigned by middleware.
func RequestID(ctx context.Context) string {
	if r, ok := ctx.Value(requestIDKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from the context, falling back to
// time.Now for non-HTTP paths (workers, seeds, tests that don't set it).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request-scoped clock, so a multi-write transition stamps
// one consistent timestamp and tests get determinism.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
