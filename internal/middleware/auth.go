package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Identity headers set by the auth gateway in front of this service.
// Token validation happens there; by the time a request reaches us the
// headers are trusted.
const (
	HeaderUserID = "X-Auth-User-ID"
	HeaderRoles  = "X-Auth-User-Roles"
)

// Roles that grant access to the admin moderation surface.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Identity is the authenticated caller as asserted by the gateway.
type Identity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries the given role.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsModerator reports whether the identity may use admin endpoints.
func (id Identity) IsModerator() bool {
	return id.HasRole(RoleAdmin) || id.HasRole(RoleModerator)
}

type identityKey struct{}

// IdentityMiddleware extracts the gateway identity headers into the
// request context. Requests without the user header pass through
// unauthenticated; handlers decide whether that is acceptable.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		id := Identity{UserID: userID}
		if raw := r.Header.Get(HeaderRoles); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					id.Roles = append(id.Roles, role)
				}
			}
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
