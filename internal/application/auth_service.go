package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// AuthService runs the OAuth install flow and stores the offline session
type AuthService struct {
	app    ports.OAuthApp
	store  ports.Store
	apiKey string
	scopes []string
	logger zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(app ports.OAuthApp, store ports.Store, apiKey string, scopes []string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		app:    app,
		store:  store,
		apiKey: apiKey,
		scopes: scopes,
		logger: logger,
	}
}

// BeginInstall returns the Shopify authorize URL together with the state nonce
// the caller must hand back to CompleteInstall
func (s *AuthService) BeginInstall(shop string) (string, string, error) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	authURL, err := s.app.AuthorizeURL(shop, state)
	if err != nil {
		return "", "", err
	}

	s.logger.Info().Str("shop", shop).Msg("Starting OAuth install")
	return authURL, state, nil
}

// CompleteInstall verifies the callback, exchanges the code for an offline token,
// stores the session and makes sure the shop has settings. It returns the
// admin URL to send the merchant to.
func (s *AuthService) CompleteInstall(ctx context.Context, callback *url.URL, expectedState string) (string, error) {
	const op = "oauth.callback"

	query := callback.Query()
	shop := query.Get("shop")
	code := query.Get("code")
	state := query.Get("state")

	if shop == "" || code == "" {
		return "", domain.NewError(domain.KindUnauthorized, op, "missing shop or code")
	}
	if expectedState == "" || state != expectedState {
		return "", domain.NewError(domain.KindUnauthorized, op, "state mismatch")
	}

	ok, err := s.app.VerifyCallback(callback)
	if err != nil || !ok {
		return "", domain.NewError(domain.KindUnauthorized, op, "invalid hmac")
	}

	token, err := s.app.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		return "", err
	}

	session := &domain.Session{
		Shop:        shop,
		AccessToken: token,
		Scope:       strings.Join(s.scopes, ","),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return "", err
	}

	settings, err := s.store.GetSettings(ctx, shop)
	if err != nil {
		return "", err
	}
	if settings == nil {
		if err := s.store.SaveSettings(ctx, &domain.ShopSettings{Shop: shop}); err != nil {
			return "", err
		}
	}

	s.logger.Info().Str("shop", shop).Str("scope", session.Scope).Msg("App installed")
	return fmt.Sprintf("https://%s/admin/apps/%s", shop, s.apiKey), nil
}
