package shopify

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"outblog-shopify-app/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// classifyError maps go-shopify and transport failures onto domain error kinds
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var rateLimited goshopify.RateLimitError
	var rateLimitedPtr *goshopify.RateLimitError
	if errors.As(err, &rateLimited) || errors.As(err, &rateLimitedPtr) {
		return domain.WrapError(domain.KindRemoteRateLimited, op, err)
	}

	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		return responseError(op, respErr, err)
	}
	var respErrPtr *goshopify.ResponseError
	if errors.As(err, &respErrPtr) && respErrPtr != nil {
		return responseError(op, *respErrPtr, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return domain.WrapError(domain.KindRemoteProtocolError, op, err)
	}

	return domain.TransportError(op, err)
}

func responseError(op string, re goshopify.ResponseError, cause error) error {
	kind := domain.KindRemoteProtocolError
	switch {
	case re.Status == http.StatusUnauthorized || re.Status == http.StatusForbidden:
		kind = domain.KindRemoteForbidden
	case re.Status == http.StatusTooManyRequests:
		kind = domain.KindRemoteRateLimited
	case re.Status >= http.StatusInternalServerError:
		kind = domain.KindRemoteServerError
	}
	return domain.WrapError(kind, op, cause)
}

// firstUserError turns the first Shopify userError into a validation error
func firstUserError(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	return domain.ValidationError(op, strings.Join(errs[0].Field, "."), errs[0].Message)
}
