package index

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusCoder is implemented by upstream errors that know their HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// HTTPStatus extracts the upstream status of err, returning 0 when unknown.
// gRPC statuses are translated to their conventional HTTP equivalents.
func HTTPStatus(err error) int {
	if err == nil {
		return 0
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.HTTPStatus()
	}

	st, ok := status.FromError(err)
	if !ok {
		return 0
	}

	switch st.Code() {
	case codes.OK:
		return 0
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
