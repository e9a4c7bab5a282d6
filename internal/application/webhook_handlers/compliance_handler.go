package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// ComplianceHandler answers the mandatory privacy webhooks.
// No customer data is stored, so only shop/redact deletes anything.
type ComplianceHandler struct {
	logger zerolog.Logger
	store  ports.Store
}

// NewComplianceHandler creates a new privacy compliance webhook handler
func NewComplianceHandler(logger zerolog.Logger, store ports.Store) *ComplianceHandler {
	return &ComplianceHandler{
		logger: logger,
		store:  store,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ComplianceHandler) CanHandle(topic string) bool {
	return topic == "customers/data_request" ||
		topic == "customers/redact" ||
		topic == "shop/redact"
}

// Handle processes a compliance webhook event
func (h *ComplianceHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload struct {
		ShopID     int64  `json:"shop_id"`
		ShopDomain string `json:"shop_domain"`
		Customer   struct {
			ID int64 `json:"id"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse compliance webhook payload: %w", err)
	}

	shop := event.Shop
	if shop == "" {
		shop = payload.ShopDomain
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", shop).
		Int64("customerId", payload.Customer.ID).
		Msg("Processing compliance webhook event")

	switch event.Topic {
	case "customers/data_request", "customers/redact":
		// nothing stored per customer
		return nil
	case "shop/redact":
		if err := h.store.DeleteSessions(ctx, shop); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		if err := h.store.DeleteShop(ctx, shop); err != nil {
			return fmt.Errorf("failed to redact shop: %w", err)
		}
		h.logger.Info().Str("shop", shop).Msg("Shop data redacted")
	}
	return nil
}
