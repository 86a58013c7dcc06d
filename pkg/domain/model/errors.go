package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Error kinds. Every error returned by this module carries exactly one of these tags.
var (
	ErrTagConfiguration = goerr.NewTag("configuration")
	ErrTagValidation    = goerr.NewTag("validation")
	ErrTagCredential    = goerr.NewTag("credential")
	ErrTagURIFormat     = goerr.NewTag("uri_format")
	ErrTagIO            = goerr.NewTag("io")
	ErrTagPublish       = goerr.NewTag("publish")
	ErrTagTransport     = goerr.NewTag("transport")
)

// ValidationError reports a missing or invalid release parameter
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Message)
}

// NewValidationError creates a tagged validation error for field
func NewValidationError(field, message string) error {
	return goerr.Wrap(&ValidationError{Field: field, Message: message},
		"release parameter validation failed",
		goerr.T(ErrTagValidation),
		goerr.V("field", field),
	)
}

// ValidationFields returns the fields of all validation errors contained in err, in report order.
func ValidationFields(err error) []string {
	var errs []error
	if merr := goerr.AsErrors(err); merr != nil {
		errs = merr.Errors()
	} else if err != nil {
		errs = []error{err}
	}

	var fields []string
	for _, e := range errs {
		var ve *ValidationError
		if errors.As(e, &ve) {
			fields = append(fields, ve.Field)
		}
	}
	return fields
}

// PublishError is returned when the service did not accept the upload
type PublishError struct {
	StatusCode int
	Errors     *APIErrors
	Body       string
}

func (e *PublishError) Error() string {
	var reason string
	switch {
	case e.Errors != nil && !e.Errors.Empty():
		reason = e.Errors.String()
	case strings.TrimSpace(e.Body) != "":
		reason = strings.TrimSpace(e.Body)
	default:
		reason = "no response body"
	}
	return fmt.Sprintf("failed to create release (status %d): %s", e.StatusCode, reason)
}
