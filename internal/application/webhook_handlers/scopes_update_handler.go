package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// ScopesUpdateHandler keeps the stored session scope in step with what the merchant granted
type ScopesUpdateHandler struct {
	logger   zerolog.Logger
	sessions ports.SessionRepository
}

// NewScopesUpdateHandler creates a new scopes update webhook handler
func NewScopesUpdateHandler(logger zerolog.Logger, sessions ports.SessionRepository) *ScopesUpdateHandler {
	return &ScopesUpdateHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ScopesUpdateHandler) CanHandle(topic string) bool {
	return topic == "app/scopes_update"
}

// Handle logs the scope change and rewrites the session scope when a session exists
func (h *ScopesUpdateHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload struct {
		Previous []string `json:"previous"`
		Current  []string `json:"current"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse scopes update webhook payload: %w", err)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Strs("previous", payload.Previous).
		Strs("current", payload.Current).
		Msg("Processing scopes update webhook event")

	session, err := h.sessions.GetSession(ctx, event.Shop)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	session.Scope = strings.Join(payload.Current, ",")
	if err := h.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session scope: %w", err)
	}
	return nil
}
