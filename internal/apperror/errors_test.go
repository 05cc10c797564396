package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("item %s/%s not found", "p", "s"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "item p/s not found", MessageOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Empty(t, MessageOf(errors.New("boom")))
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", AlreadyExists("item exists"))

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("throttled")
	err := StorageUnavailable(cause, "failed to read item")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "throttled")
	assert.Contains(t, err.Error(), string(KindStorageUnavailable))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindAlreadyExists, http.StatusConflict},
		{KindTranslationEngine, http.StatusInternalServerError},
		{KindStorageUnavailable, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.kind))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(KindStorageUnavailable))
	assert.True(t, Retryable(KindTranslationEngine))
	assert.False(t, Retryable(KindValidation))
	assert.False(t, Retryable(KindNotFound))
}
