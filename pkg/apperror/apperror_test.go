package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NotFound("invoice not found with id: %s", "abc")

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
	assert.Contains(t, err.Error(), "abc")

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestIsKind_SurvivesWrapping(t *testing.T) {
	inner := Validation("bad amount")
	wrapped := fmt.Errorf("creating payment: %w", inner)

	assert.True(t, IsKind(wrapped, KindValidation))
	assert.False(t, IsKind(wrapped, KindConflict))
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := Wrap(KindConflict, cause, "vendor already exists")

	assert.True(t, IsKind(err, KindConflict))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "duplicate key value")
}
