package api

import (
	"net/http"
	"strings"

	"outblog-shopify-app/internal/domain"

	"github.com/rs/zerolog"
)

// SecurityHeadersMiddleware sets the response headers an embedded admin app needs.
// Framing is limited to the Shopify admin and the shop the request belongs to.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ancestors := "https://admin.shopify.com"
			if shop := r.URL.Query().Get("shop"); shop != "" && !strings.ContainsAny(shop, " ;'\"") {
				ancestors = "https://" + shop + " " + ancestors
			}

			h := w.Header()
			h.Set("Content-Security-Policy", "frame-ancestors "+ancestors+";")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// SessionTokenMiddleware authenticates embedded requests with the App Bridge
// session token and stores the shop in the request context.
// The token is read from the Authorization header, else the id_token query parameter.
func SessionTokenMiddleware(verifier TokenVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("id_token")
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			shop, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected session token")
				w.Header().Set("X-Shopify-Retry-Invalid-Session-Request", "1")
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithShop(r.Context(), shop)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
