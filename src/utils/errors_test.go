package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("%w: bad date", ErrValidation)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("%w: booking 7", ErrNotFound)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("%w: pending exists", ErrConflict)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(fmt.Errorf("%w: already decided", ErrInvalidState)))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(fmt.Errorf("%w: timeout", ErrUpstream)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("disk on fire")))
}

func TestPendingDeleteError(t *testing.T) {
	err := &PendingDeleteError{PendingIDs: []uint{3, 9}}
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
	assert.Contains(t, err.Error(), "[3 9]")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrUpstream))
	assert.True(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrConflict))
	assert.False(t, IsRetryable(&PendingDeleteError{PendingIDs: []uint{1}}))
}
