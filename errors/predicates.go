package errors

import "errors"

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsEnvironment reports whether err is an EnvironmentError.
func IsEnvironment(err error) bool {
	return errors.Is(err, ErrEnvironment)
}

// IsRequest reports whether err is a RequestError, including
// ReauthorizationRequiredError.
func IsRequest(err error) bool {
	return errors.Is(err, ErrRequest)
}

// IsReauthorizationRequired reports whether the end user must authorize
// the connection again.
func IsReauthorizationRequired(err error) bool {
	return errors.Is(err, ErrReauthorizationRequired)
}

// StatusCode returns the HTTP status carried by a RequestError, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
