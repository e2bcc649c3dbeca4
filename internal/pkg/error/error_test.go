package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyStatusAndToken(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		token  string
	}{
		{EmailRequired("identity is required"), http.StatusBadRequest, "EMAIL_REQUIRED"},
		{FreeLimitReached("limit"), http.StatusPaymentRequired, "FREE_LIMIT_REACHED"},
		{GenerationFailed("provider"), http.StatusInternalServerError, "GENERATION_FAILED"},
		{RenderFailed("render"), http.StatusInternalServerError, "RENDER_FAILED"},
		{StoreFailure("db"), http.StatusInternalServerError, "SERVER_ERROR"},
		{PayloadTooLarge("body"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{MapHttpStatusToError(http.StatusRequestEntityTooLarge, "body"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HttpCode())
		assert.Equal(t, tc.token, tc.err.Error())
	}
}

func TestIsComparesErrorCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("generate: %w", GenerationFailed("upstream down").Wrap(cause))

	assert.True(t, errors.Is(err, GenerationFailed("")))
	assert.False(t, errors.Is(err, RenderFailed("")))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, HasCode(err, GENERATION_FAILED))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	appErr := From(errors.New("boom"))
	assert.Equal(t, INTERNAL_ERROR, appErr.ErrorCode())
	assert.Equal(t, "boom", appErr.ErrorDesc())

	quota := FreeLimitReached("x")
	assert.Same(t, quota, From(quota))
}
