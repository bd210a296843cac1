package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "repair-tracker/pkg/errors"
)

func TestFormatParse_RoundTrip(t *testing.T) {
	cases := []struct {
		prefix string
		id     uint64
	}{
		{RepairOrderPrefix, 1},
		{RepairUnitPrefix, 7},
		{StatusPrefix, 123},
		{AssigneePrefix, 99999},
	}

	for _, tc := range cases {
		key := Format(tc.prefix, tc.id)
		prefix, id, err := Parse(key)
		require.NoError(t, err, "ключ %s должен разбираться без ошибок", key)
		assert.Equal(t, tc.prefix, prefix)
		assert.Equal(t, tc.id, id)
	}
}

func TestParse_InvalidFormat(t *testing.T) {
	badKeys := []string{
		"",
		"RO",
		"RO-",
		"RO-1-2",
		"RO-abc",
		"RO_1",
		"RO--1",
	}

	for _, key := range badKeys {
		_, _, err := Parse(key)
		assert.ErrorIs(t, err, apperrors.ErrInvalidKeyFormat, "ключ %q", key)
	}
}

func TestParseAs_WrongKind(t *testing.T) {
	id, err := ParseAs("AS-7", RepairOrderPrefix)
	assert.ErrorIs(t, err, apperrors.ErrWrongKeyKind)
	assert.Zero(t, id)

	id, err = ParseAs("RO-7", RepairOrderPrefix)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}
