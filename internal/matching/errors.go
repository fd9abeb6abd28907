package matching

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/records"
)

// ValidationError reports a request that is missing required data.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError is a failure of the vector index, annotated with the record it concerned.
type UpstreamError struct {
	Op       string
	RecordID string
	Type     records.Type
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s record %s (%s): %v", e.Op, e.RecordID, e.Type, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the upstream status when known, otherwise 500.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status > 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ConfigurationError reports a dependency that is not configured.
// It surfaces on the first call that needs the dependency.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// upstreamError classifies an index failure.
func upstreamError(op string, rec records.Record, err error) error {
	if errors.Is(err, index.ErrNotConfigured) {
		return &ConfigurationError{Err: err}
	}
	return &UpstreamError{
		Op:       op,
		RecordID: rec.ID,
		Type:     rec.Type,
		Status:   index.HTTPStatus(err),
		Err:      err,
	}
}

// HTTPStatus maps an error returned by this package to a response status.
func HTTPStatus(err error) int {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}

	var config *ConfigurationError
	if errors.As(err, &config) {
		return http.StatusInternalServerError
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.HTTPStatus()
	}

	return http.StatusInternalServerError
}
