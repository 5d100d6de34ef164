// Package session manages the anonymous shopper identity: an opaque
// token in an HTTP-only cookie that keys the guest cart in Redis. The
// cookie value is AES-GCM encrypted so the Redis key space cannot be
// probed from a leaked cookie jar. Once the shopper authenticates the
// cart moves to the database and the cookie is cleared.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angotech/angotech/pkg/crypt"
	"github.com/angotech/angotech/pkg/logger"
)

const (
	// CartCookie names the guest-cart cookie.
	CartCookie = "angotech_cart"

	// CartTTL bounds how long an abandoned guest cart survives.
	CartTTL = 30 * 24 * time.Hour
)

// CartToken returns the guest cart token from the request cookie, or
// "" when the shopper has none yet. A cookie that fails decryption is
// treated as absent.
func CartToken(r *http.Request) string {
	c, err := r.Cookie(CartCookie)
	if err != nil {
		return ""
	}
	token, err := crypt.Decrypt(c.Value)
	if err != nil {
		// Cookies minted without an APP_KEY carry the bare token.
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return c.Value
		}
		return ""
	}
	return token
}

// EnsureCartToken returns the request's cart token, minting and setting
// a fresh one when absent. Safe to call on every cart request.
func EnsureCartToken(w http.ResponseWriter, r *http.Request) string {
	if token := CartToken(r); token != "" {
		return token
	}

	token := uuid.NewString()
	sealed, err := crypt.Encrypt(token)
	if err != nil {
		// No APP_KEY configured; fall back to the bare token rather
		// than lose the cart.
		logger.Warn("session: cart token encryption failed", "error", err)
		sealed = token
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(CartTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// ClearCartToken expires the guest-cart cookie. Called after a login
// merge so the next anonymous visit starts from an empty cart.
func ClearCartToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
