// Package notify envoie les e-mails transactionnels (contact, commandes).
package notify

import (
	"context"

	"storefront_back_end/internal/models"
)

type Notifier interface {
	// ContactReceived prévient la boîte admin d'un nouveau message
	ContactReceived(ctx context.Context, c models.Contact) error
	OrderPlaced(ctx context.Context, o models.Order) error
	OrderStatusChanged(ctx context.Context, o models.Order) error
}

type Noop struct{}

var _ Notifier = Noop{}

func (Noop) ContactReceived(context.Context, models.Contact) error { return nil }
func (Noop) OrderPlaced(context.Context, models.Order) error       { return nil }
func (Noop) OrderStatusChanged(context.Context, models.Order) error {
	return nil
}
