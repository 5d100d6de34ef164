package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angotech/angotech/pkg/auth"
	"github.com/angotech/angotech/pkg/response"
)

type authCtxKey string

const (
	userIDKey authCtxKey = "auth.user_id"
	roleKey   authCtxKey = "auth.role"
	jtiKey    authCtxKey = "auth.jti"
)

// UserIDFromCtx returns the authenticated user's id, or 0 when the
// request carried no valid token.
func UserIDFromCtx(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey).(uint)
	return id
}

// RoleFromCtx returns the authenticated user's role, or "" when anonymous.
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// TokenIDFromCtx returns the jti of the presented access token.
func TokenIDFromCtx(ctx context.Context) string {
	jti, _ := ctx.Value(jtiKey).(string)
	return jti
}

// BearerToken extracts the raw bearer token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, userIDKey, claims.UserID)
	ctx = context.WithValue(ctx, roleKey, claims.Role)
	return context.WithValue(ctx, jtiKey, claims.ID)
}

// Auth rejects requests without a valid, unrevoked bearer token and
// stores the claims on the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Authentication required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if auth.Revoked(claims.ID) {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through. Cart routes use this: carts exist in both
// the anonymous and the authenticated realm.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := BearerToken(r); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil && !auth.Revoked(claims.ID) {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}
