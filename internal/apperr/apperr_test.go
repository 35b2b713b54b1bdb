package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusCodes(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:        http.StatusBadRequest,
		KindUnauthorized:      http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindNotFound:          http.StatusNotFound,
		KindExpectationFailed: http.StatusExpectationFailed,
		KindDatabase:          http.StatusInternalServerError,
		KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.StatusCode())
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	dbErr := Database("select users", errors.New("connection refused to 10.0.0.5"))
	assert.Equal(t, "internal server error", dbErr.Message())
	assert.Contains(t, dbErr.Error(), "connection refused")

	clientErr := BadRequest("missing nim field")
	assert.Equal(t, "missing nim field", clientErr.Message())
}

func TestFromPreservesWrappedError(t *testing.T) {
	original := NotFound("recording not found")
	wrapped := fmt.Errorf("listing: %w", original)

	assert.Equal(t, KindNotFound, From(wrapped).Kind)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindForbidden))
}

func TestFromDefaultsToInternal(t *testing.T) {
	err := From(errors.New("some plain error"))
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "internal server error", err.Message())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("write recording payload", cause)
	assert.ErrorIs(t, err, cause)
}
