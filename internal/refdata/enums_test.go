package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceCategory(t *testing.T) {
	for _, c := range DeviceCategories() {
		got, err := ParseDeviceCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseDeviceCategory(" Laptop ")
	require.NoError(t, err)
	assert.Equal(t, DeviceLaptop, got)

	_, err = ParseDeviceCategory("smartwatch")
	assert.True(t, IsUnknownKey(err))
}

func TestParseCloudProvider(t *testing.T) {
	for _, p := range CloudProviders() {
		got, err := ParseCloudProvider(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.NotEqual(t, string(p), p.DisplayName())
	}

	_, err := ParseCloudProvider("Microsoft")
	assert.True(t, IsUnknownKey(err), "display names are not keys")
}

func TestLookupError_Message(t *testing.T) {
	err := NewLookupError("device category", "toaster")
	assert.Equal(t, `unknown lookup key: device category "toaster"`, err.Error())
}
