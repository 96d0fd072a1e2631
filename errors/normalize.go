package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	jhttp "github.com/randalmurphal/juncture/http"
)

// Remote payload fields consulted when normalizing.
const (
	fieldError                = "error"
	fieldDetails              = "details"
	fieldNeedsReauthorization = "needs_reauthorization"
)

// Normalize converts any failure of op into a single *RequestError.
//
// The message is, in order of preference: the remote's "error" string;
// fallback followed by the remote's "details"; the transport's own failure
// message; fallback. Errors that are already part of the taxonomy are
// returned unchanged.
func Normalize(op string, err error, fallback string) error {
	if err == nil {
		return nil
	}
	if isTaxonomy(err) {
		return err
	}

	reqErr := &RequestError{Op: op, Err: err}

	var apiErr *jhttp.APIError
	if errors.As(err, &apiErr) {
		reqErr.StatusCode = apiErr.StatusCode
		reqErr.Message = remoteMessage(apiErr, fallback)
		return reqErr
	}

	reqErr.Message = err.Error()
	if reqErr.Message == "" {
		reqErr.Message = fallback
	}
	return reqErr
}

// NormalizeWithReauthorization is Normalize, except that a 403 whose payload
// sets needs_reauthorization becomes a *ReauthorizationRequiredError.
func NormalizeWithReauthorization(op string, err error, fallback string) error {
	var apiErr *jhttp.APIError
	if errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusForbidden &&
		apiErr.Bool(fieldNeedsReauthorization) {
		return NewReauthorizationRequiredError(op, apiErr.StatusCode, remoteMessage(apiErr, fallback), err)
	}
	return Normalize(op, err, fallback)
}

// Invalid returns a RequestError for a request rejected before it was sent.
func Invalid(op string, err error) error {
	return &RequestError{Op: op, Message: "invalid request: " + err.Error(), Err: err}
}

func remoteMessage(apiErr *jhttp.APIError, fallback string) string {
	if msg := apiErr.String(fieldError); msg != "" {
		return msg
	}
	if details := detailsText(apiErr.Payload[fieldDetails]); details != "" {
		return fallback + ": " + details
	}
	if msg := apiErr.StatusMessage(); msg != "" {
		return msg
	}
	return fallback
}

func detailsText(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func isTaxonomy(err error) bool {
	var (
		cfgErr *ConfigurationError
		envErr *EnvironmentError
		reqErr *RequestError
	)
	return errors.As(err, &cfgErr) || errors.As(err, &envErr) || errors.As(err, &reqErr)
}
