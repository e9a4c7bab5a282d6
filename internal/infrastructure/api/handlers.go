package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"outblog-shopify-app/internal/application"
	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

const stateCookie = "outblog_oauth_state"

// installHandler starts the OAuth flow for ?shop=
func installHandler(installer Installer, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := shopify.NormalizeShopDomain(r.URL.Query().Get("shop"))
		if !shopify.IsValidShopDomain(shop) {
			http.Error(w, "a valid shop parameter is required", http.StatusBadRequest)
			return
		}

		authURL, state, err := installer.BeginInstall(shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to start OAuth")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/auth",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// callbackHandler finishes the OAuth flow and sends the merchant into the admin
func callbackHandler(installer Installer, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expected := ""
		if c, err := r.Cookie(stateCookie); err == nil {
			expected = c.Value
		}

		redirect, err := installer.CompleteInstall(r.Context(), r.URL, expected)
		if err != nil {
			logger.Warn().Err(err).Str("shop", r.URL.Query().Get("shop")).Msg("OAuth callback failed")
			if domain.IsKind(err, domain.KindUnauthorized) {
				http.Error(w, "Invalid OAuth callback", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Failed to complete installation", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// dashboardHandler returns settings and one page of posts
func dashboardHandler(dashboard DashboardLoader, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := domain.ShopFromContext(r.Context())

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		dash, err := dashboard.Load(r.Context(), shop, page)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to load dashboard")
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

// actionHandler dispatches the dashboard form actions on _action
func actionHandler(publisher Publisher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shop := domain.ShopFromContext(ctx)

		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		action := r.PostForm.Get("_action")

		var (
			message string
			data    interface{}
			err     error
		)

		switch action {
		case "saveApiKey":
			postAsDraft := isChecked(r.PostForm.Get("postAsDraft"))
			_, err = publisher.ValidateAndSaveCredential(ctx, shop, r.PostForm.Get("apiKey"), postAsDraft)
			message = "API key saved successfully"

		case "fetchBlogs":
			var n int
			n, err = publisher.SyncPosts(ctx, shop)
			message = fmt.Sprintf("Successfully synced %d posts", n)

		case "checkLiveStatus":
			var result *application.LiveStatusResult
			result, err = publisher.CheckLiveStatus(ctx, shop)
			if err == nil {
				message = liveStatusMessage(result)
				data = result
			}

		case "publishToShopify":
			postID := r.PostForm.Get("blogId")
			if postID == "" {
				writeError(w, http.StatusBadRequest, "blogId is required")
				return
			}
			var post *domain.BlogPost
			post, err = publisher.PublishOne(ctx, shop, postID)
			if err == nil {
				message = "Post published to Shopify"
				if post.Status == domain.PostStatusDraft {
					message = "Post saved to Shopify as a draft"
				}
				data = post
			}

		case "publishAllToShopify":
			var result *application.PublishAllResult
			result, err = publisher.PublishAll(ctx, shop)
			if err == nil {
				message = fmt.Sprintf("%d published", result.Published)
			}

		default:
			writeError(w, http.StatusBadRequest, "unknown action")
			return
		}

		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Str("action", action).Msg("Dashboard action failed")
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: message, Data: data})
	}
}

func isChecked(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "on" || v == "true" || v == "1"
}

func liveStatusMessage(result *application.LiveStatusResult) string {
	switch {
	case result.Checked == 0:
		return "No published posts to check"
	case result.Demoted == 0:
		return fmt.Sprintf("All %d published posts are live", result.Checked)
	default:
		return fmt.Sprintf("%d of %d posts were no longer on Shopify and were reverted to draft", result.Demoted, result.Checked)
	}
}

// cronHandler syncs every registered shop when the shared secret matches
func cronHandler(cron CronRunner, secret string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		given := r.FormValue("secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			logger.Warn().Str("remote", r.RemoteAddr).Msg("Rejected cron request")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if !cron.Available() {
			writeError(w, http.StatusServiceUnavailable, "cron sync needs a persistent storage driver")
			return
		}

		result, err := cron.SyncAll(r.Context())
		if err != nil {
			if errors.Is(err, application.ErrRegistryUnavailable) {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			logger.Error().Err(err).Msg("Cron sync failed")
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusOK, actionResponse{
			Success: true,
			Message: fmt.Sprintf("Synced %d of %d shops", result.Succeeded, result.Shops),
			Data:    result,
		})
	}
}

// webhookHandler verifies and dispatches Shopify webhook deliveries
func webhookHandler(verifier WebhookVerifier, dispatcher WebhookDispatcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := r.Header.Get("X-Shopify-Topic")
		if topic == "" {
			logger.Warn().Msg("Missing X-Shopify-Topic header")
			http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
			return
		}

		if !verifier.VerifyWebhook(r) {
			logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		defer r.Body.Close()
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		event := &domain.WebhookEvent{
			Topic:      topic,
			Shop:       r.Header.Get("X-Shopify-Shop-Domain"),
			WebhookID:  r.Header.Get("X-Shopify-Webhook-Id"),
			Payload:    payload,
			ReceivedAt: time.Now().UTC(),
		}

		if err := dispatcher.Dispatch(r.Context(), event); err != nil {
			logger.Error().
				Err(err).
				Str("topic", topic).
				Str("shop", event.Shop).
				Msg("Failed to dispatch webhook event")

			// 500 makes Shopify retry the delivery
			http.Error(w, "Failed to process webhook event", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
	}
}
