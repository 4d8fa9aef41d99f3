package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithoutPathReturnsNilResolver(t *testing.T) {
	r, err := Open("  ")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = r.CountryCode("203.0.113.1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, r.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/GeoLite2-Country.mmdb")
	assert.Error(t, err)
}
