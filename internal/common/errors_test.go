package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError("STORE_WRITE", "could not persist run", cause)

	assert.Equal(t, "STORE_WRITE: could not persist run: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewAppError("STORE_WRITE", "could not persist run", nil)
	assert.Equal(t, "STORE_WRITE: could not persist run", bare.Error())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	err := WrapError(ErrDatabase, "create project")
	assert.ErrorIs(t, err, ErrDatabase)
	assert.Equal(t, "create project: database error", err.Error())
}

func TestSentinelConstructors(t *testing.T) {
	err := NotFoundf("project %s", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "project abc")

	err = InvalidInputf("market %q unknown", "CN")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("name", "", Required).
		Field("market", "MARS", MarketCode)

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 2)
	assert.ErrorIs(t, v.Error(), ErrValidation)
	assert.Contains(t, v.ErrorMessage(), "name")
	assert.Contains(t, v.ErrorMessage(), "market")

	ok := NewValidator().
		Field("name", "RT100", Required).
		Field("market", "eu", MarketCode).
		Field("id", "7a9db8de-3a1d-4c6f-9a48-9f5e7f3f2f11", UUID)
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Error())
}

func TestValidationRules(t *testing.T) {
	assert.Nil(t, Required("f", "value"))
	assert.NotNil(t, Required("f", "  "))
	assert.NotNil(t, Required("f", nil))

	assert.Nil(t, UUID("f", "7a9db8de-3a1d-4c6f-9a48-9f5e7f3f2f11"))
	assert.NotNil(t, UUID("f", "nope"))
	assert.NotNil(t, UUID("f", 7))

	assert.Nil(t, MaxLength("f", "한글이름", 4))
	assert.NotNil(t, MaxLength("f", "한글이름", 3))

	assert.Nil(t, MarketCode("f", "US"))
	assert.NotNil(t, MarketCode("f", "CN"))
}
