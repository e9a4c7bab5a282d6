package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes everything stored for a shop once the app is uninstalled
type AppUninstalledHandler struct {
	logger zerolog.Logger
	store  ports.Store
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, store ports.Store) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger: logger,
		store:  store,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle deletes the shop settings, their posts and the stored sessions
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := event.Shop
	if shop == "" {
		var shopData struct {
			Domain          string `json:"domain"`
			MyshopifyDomain string `json:"myshopify_domain"`
		}
		if err := json.Unmarshal(event.Payload, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		shop = shopData.MyshopifyDomain
		if shop == "" {
			shop = shopData.Domain
		}
	}
	if shop == "" {
		return fmt.Errorf("app uninstalled webhook carries no shop")
	}

	h.logger.Info().Str("topic", event.Topic).Str("shop", shop).Msg("Processing app uninstalled webhook event")

	if err := h.store.DeleteSessions(ctx, shop); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := h.store.DeleteShop(ctx, shop); err != nil {
		return fmt.Errorf("failed to delete shop data: %w", err)
	}

	h.logger.Info().Str("shop", shop).Msg("App uninstalled - shop data removed")
	return nil
}
