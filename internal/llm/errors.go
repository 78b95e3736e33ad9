package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrServiceUnavailable marks provider failures that signal a temporary
// outage (HTTP 503 or gRPC Unavailable).
var ErrServiceUnavailable = errors.New("model provider unavailable")

// classifyError wraps provider errors so callers can test for
// ErrServiceUnavailable with errors.Is.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return err
}

func isUnavailable(err error) bool {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPCode() == http.StatusServiceUnavailable {
			return true
		}
		if apiErr.GRPCStatus().Code() == codes.Unavailable {
			return true
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusServiceUnavailable {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.Unavailable {
		return true
	}
	return false
}
