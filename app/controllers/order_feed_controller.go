package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angotech/angotech/pkg/event"
	"github.com/angotech/angotech/pkg/ws"
)

// OrderFeedController streams newly placed orders to the admin
// dashboard over WebSocket.
type OrderFeedController struct {
	hub *ws.Hub
}

// NewOrderFeedController starts the hub and subscribes it to the
// order.placed event so every checkout lands on connected dashboards.
func NewOrderFeedController() *OrderFeedController {
	hub := ws.NewHub()
	go hub.Run()

	event.Listen("order.placed", func(payload interface{}) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		hub.Broadcast <- data
	})

	return &OrderFeedController{hub: hub}
}

// Feed upgrades the connection and registers the admin client.
func (c *OrderFeedController) Feed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}
