package api

import (
	"encoding/json"
	"net/http"

	"outblog-shopify-app/internal/application"
	"outblog-shopify-app/internal/domain"
)

type actionResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, actionResponse{Success: false, Error: message})
}

// writeFailure reports err as {success:false, error} with the merchant-facing message
func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), application.UserMessage(err))
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidCredential, domain.KindCredentialMissing, domain.KindRemoteValidationError:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRemoteRateLimited:
		return http.StatusTooManyRequests
	case domain.KindRemoteForbidden, domain.KindRemoteServerError, domain.KindRemoteProtocolError,
		domain.KindRemoteEmptyResponse, domain.KindNetworkError:
		return http.StatusBadGateway
	case domain.KindTimeoutError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
