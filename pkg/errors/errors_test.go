package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped message", fmt.Errorf("load: %w", ErrMessageNotFound), http.StatusNotFound},
		{"group message", ErrGroupMessageNotFound, http.StatusNotFound},
		{"bad request", ErrInvalidPayload, http.StatusBadRequest},
		{"empty upload", ErrEmptyUpload, http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"api error", NewAPIError("teapot", http.StatusTeapot), http.StatusTeapot},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusFromError(tc.err))
		})
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "server error", PublicMessage(errors.New("connection refused")))
	assert.Equal(t, ErrMessageNotFound.Error(), PublicMessage(ErrMessageNotFound))
}
