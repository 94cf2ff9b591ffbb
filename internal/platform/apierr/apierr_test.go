package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUnwrapsChain(t *testing.T) {
	base := NotFound("session_not_found", "session %s not found", "abc")
	wrapped := fmt.Errorf("load: %w", base)

	ae, ok := From(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, "session_not_found", CodeOf(wrapped))
	assert.Equal(t, "session abc not found", ae.Error())
}

func TestErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "store_failed", New(500, "store_failed", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("export_failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
