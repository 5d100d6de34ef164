package controllers

import (
	"net/http"
	"time"

	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/notify"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
	"github.com/angotech/angotech/pkg/session"
	"github.com/angotech/angotech/pkg/sse"
)

// NotificationController exposes the shopper's toast slot: a poll
// endpoint, a dismiss endpoint, and a server-sent-events stream that
// pushes slot changes as they happen.
type NotificationController struct {
	toasts *notify.Hub
}

func NewNotificationController(toasts *notify.Hub) *NotificationController {
	return &NotificationController{toasts: toasts}
}

func (c *NotificationController) key(w http.ResponseWriter, r *http.Request) string {
	if userID := middleware.UserIDFromCtx(r.Context()); userID != 0 {
		return services.Identity{UserID: userID}.Key()
	}
	return services.Identity{Token: session.EnsureCartToken(w, r)}.Key()
}

// Current returns the toast occupying the slot, or null.
func (c *NotificationController) Current(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.toasts.Current(c.key(w, r)))
}

// Dismiss clears the slot if the given toast still occupies it. A
// stale id (the slot moved on) is acknowledged but changes nothing.
func (c *NotificationController) Dismiss(w http.ResponseWriter, r *http.Request) {
	cleared := c.toasts.Dismiss(c.key(w, r), router.Param(r, "id"))
	response.Success(w, map[string]bool{"dismissed": cleared})
}

// Stream pushes slot changes over SSE. Events are `toast` with the
// toast JSON, or `clear` when the slot empties. A comment keepalive
// goes out every 25 seconds.
func (c *NotificationController) Stream(w http.ResponseWriter, r *http.Request) {
	key := c.key(w, r)
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	changes, cancel := c.toasts.Subscribe(key)
	defer cancel()

	// Replay the current slot so a reconnecting client catches up.
	if current := c.toasts.Current(key); current != nil {
		stream.Send("toast", current)
	}

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			stream.Comment("keepalive")
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.Toast == nil {
				stream.Send("clear", map[string]any{})
			} else if err := stream.Send("toast", change.Toast); err != nil {
				return
			}
		}
	}
}
