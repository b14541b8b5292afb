package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := writeErr("insert task", errors.New("disk full"))
	assert.Equal(t, "storage write: insert task: disk full", err.Error())
}

func TestIsKind(t *testing.T) {
	err := readErr("list tasks", errors.New("io"))
	assert.True(t, IsKind(err, KindRead))
	assert.False(t, IsKind(err, KindWrite))
	assert.False(t, IsKind(errors.New("plain"), KindRead))

	wrapped := fmt.Errorf("refresh: %w", err)
	assert.True(t, IsKind(wrapped, KindRead))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("locked")
	err := initErr("open", cause)
	assert.ErrorIs(t, err, cause)
}
