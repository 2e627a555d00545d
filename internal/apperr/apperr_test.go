package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("x").Status())
	assert.Equal(t, http.StatusBadRequest, Conflict("x").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("x").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status())
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status())
	assert.Equal(t, http.StatusServiceUnavailable, Unavailable("x").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal("x", nil).Status())
}

func TestFromUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("Product not found"))
	e := From(wrapped)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, "Product not found", e.Message)
}

func TestFromUnknownIsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	e := From(cause)
	assert.Equal(t, KindInternal, e.Kind)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "Internal server error: connection reset", e.Error())
}
