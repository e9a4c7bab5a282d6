package application

import (
	"errors"

	"outblog-shopify-app/internal/domain"
)

var userMessages = map[domain.ErrorKind]string{
	domain.KindInvalidCredential:   "Invalid API key. Please check your Outblog API key and try again.",
	domain.KindCredentialMissing:   "Please save your Outblog API key first.",
	domain.KindNotFound:            "The requested item could not be found.",
	domain.KindRemoteRateLimited:   "Too many requests. Please wait a moment and try again.",
	domain.KindRemoteForbidden:     "Access was denied. Please reinstall the app or check its permissions.",
	domain.KindRemoteServerError:   "The remote service is having problems. Please try again later.",
	domain.KindRemoteProtocolError: "Received an unexpected response. Please try again.",
	domain.KindRemoteEmptyResponse: "The remote service returned an empty response. Please try again.",
	domain.KindNetworkError:        "Could not reach the remote service. Please check your connection.",
	domain.KindTimeoutError:        "The request timed out. Please try again.",
	domain.KindPersistenceError:    "Could not save your data. Please try again.",
	domain.KindUnauthorized:        "You are not authorized to perform this action.",
}

const genericMessage = "Something went wrong. Please try again."

// UserMessage maps an error to the text shown to the merchant.
// Validation errors reported by Shopify are shown as-is.
func UserMessage(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return genericMessage
	}
	if de.Kind == domain.KindRemoteValidationError {
		if de.Field != "" {
			return de.Field + ": " + de.Message
		}
		return de.Message
	}
	if msg, ok := userMessages[de.Kind]; ok {
		return msg
	}
	return genericMessage
}
