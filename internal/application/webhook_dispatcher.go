package application

import (
	"context"
	"errors"
	"fmt"

	"outblog-shopify-app/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes the webhook topics it accepts
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to the registered handlers
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates an empty dispatcher
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler; handlers run in registration order
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch runs every handler that accepts the event's topic.
// An unhandled topic is not an error.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	handled := 0
	var errs []error
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled++
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("failed to handle %s: %w", event.Topic, err))
		}
	}

	if handled == 0 {
		d.logger.Debug().Str("topic", event.Topic).Str("shop", event.Shop).Msg("No handler for webhook topic")
	}
	return errors.Join(errs...)
}
