package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Unauthorized("denied"), http.StatusForbidden},
		{Conflict("duplicate"), http.StatusConflict},
		{State("not bookable"), http.StatusConflict},
		{Transaction("commit failed", errors.New("io")), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while booking: %w", State("session is full"))
	assert.True(t, IsState(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestTransactionUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transaction("failed to commit transaction", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to commit transaction")
}

func TestConstructorsFormat(t *testing.T) {
	err := Conflict("member %d already enrolled", 10)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "member 10")
}
