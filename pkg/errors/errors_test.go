package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrDocumentNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("looking up doc 7: %w", ErrDocumentNotFound), http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"unknown model", ErrUnknownModel, http.StatusBadRequest},
		{"no model", ErrNoActiveModel, http.StatusConflict},
		{"unsupported", ErrUnsupportedOperation, http.StatusNotImplemented},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"app error wins", Newf(ErrDocumentNotFound, http.StatusGone, "doc %d", 3), http.StatusGone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := New(ErrInvalidInput, http.StatusBadRequest, "k must be positive")
	if got := err.Error(); got != "invalid input: k must be positive" {
		t.Errorf("Error() = %q", got)
	}
	if err.Unwrap() != ErrInvalidInput {
		t.Errorf("Unwrap() did not return the sentinel")
	}
}
