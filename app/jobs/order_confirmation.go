// Package jobs holds the background jobs dispatched through the queue.
package jobs

import (
	"fmt"

	"github.com/angotech/angotech/pkg/logger"
	"github.com/angotech/angotech/pkg/mail"
	"github.com/angotech/angotech/pkg/queue"
)

// OrderConfirmationJob emails the buyer after a successful checkout.
type OrderConfirmationJob struct {
	OrderID     string  `json:"order_id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	TotalAmount float64 `json:"total_amount"`
}

func init() {
	queue.Register("order_confirmation", func() queue.Job { return &OrderConfirmationJob{} })
}

func (j *OrderConfirmationJob) Handle() error {
	if j.Email == "" {
		// Guest checkout without an email on file; nothing to send.
		return nil
	}

	body := fmt.Sprintf(
		"<p>Olá %s,</p><p>A sua encomenda <strong>%s</strong> no valor de %.2f AOA foi recebida e está Pendente.</p><p>Obrigado por comprar na AngoTech!</p>",
		j.FullName, j.OrderID, j.TotalAmount,
	)

	if err := mail.To(j.Email).
		Subject("AngoTech — Encomenda recebida").
		Body(body).
		Send(); err != nil {
		return fmt.Errorf("order confirmation mail: %w", err)
	}

	logger.Info("jobs: order confirmation sent", "order_id", j.OrderID)
	return nil
}
