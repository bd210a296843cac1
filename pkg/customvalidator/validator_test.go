package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestEntityKeyValidation(t *testing.T) {
	v := newValidator(t)

	type payload struct {
		Key string `validate:"entity_key"`
	}

	for _, key := range []string{"RO-1", "RU-42", "ST-7", "AS-100"} {
		assert.NoError(t, v.Struct(payload{Key: key}), key)
	}
	for _, key := range []string{"", "RO", "RO-", "XX-1", "ro-1", "RO-abc", "RO-1-2"} {
		assert.Error(t, v.Struct(payload{Key: key}), key)
	}
}

func TestUnitTypeValidation(t *testing.T) {
	v := newValidator(t)

	type payload struct {
		Type string `validate:"unit_type"`
	}

	assert.NoError(t, v.Struct(payload{Type: "machine"}))
	assert.NoError(t, v.Struct(payload{Type: "hashboard"}))
	assert.Error(t, v.Struct(payload{Type: "laptop"}))
	assert.Error(t, v.Struct(payload{Type: ""}))
}
