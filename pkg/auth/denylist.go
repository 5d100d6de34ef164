package auth

import (
	"time"

	"github.com/angotech/angotech/pkg/cache"
)

// Logged-out tokens are tracked by jti until their natural expiry.

func denyKey(jti string) string {
	return "auth:deny:" + jti
}

// Revoke marks a token id as unusable for the remainder of its lifetime.
func Revoke(jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return cache.Set(denyKey(jti), 1, ttl)
}

// Revoked reports whether a token id has been revoked.
// With no cache backend available it reports false, so sessions keep
// working and only explicit logout loses effect.
func Revoked(jti string) bool {
	var flag int
	return cache.Get(denyKey(jti), &flag)
}
