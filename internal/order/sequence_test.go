package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "CBC00001", FormatOrderID(1))
	assert.Equal(t, "CBC00042", FormatOrderID(42))
	assert.Equal(t, "CBC99999", FormatOrderID(99999))
	// beyond the pad width the number keeps growing
	assert.Equal(t, "CBC100000", FormatOrderID(100000))
}

func TestParseOrderNumber(t *testing.T) {
	n, err := ParseOrderNumber("CBC00037")
	require.NoError(t, err)
	assert.Equal(t, int64(37), n)

	n, err = ParseOrderNumber("CBC100001")
	require.NoError(t, err)
	assert.Equal(t, int64(100001), n)

	_, err = ParseOrderNumber("ORD00001")
	assert.Error(t, err)

	_, err = ParseOrderNumber("CBCxyz")
	assert.Error(t, err)
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{1, 9, 10, 12345, 99999, 100000} {
		got, err := ParseOrderNumber(FormatOrderID(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
