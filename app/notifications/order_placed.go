// Package notifications holds the out-of-band notifications the
// storefront sends through pkg/notification.
package notifications

import (
	"github.com/angotech/angotech/pkg/notification"
)

// OrderPlaced posts a new-order payload to the operations webhook so
// fulfilment tooling outside this service hears about checkouts.
type OrderPlaced struct {
	URL     string
	Payload interface{}
}

func (n *OrderPlaced) Via() []string { return []string{"webhook"} }

func (n *OrderPlaced) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL:     n.URL,
		Payload: n.Payload,
		Headers: map[string]string{"X-AngoTech-Event": "order.placed"},
	}
}
