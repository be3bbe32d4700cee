package proxy

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTargetURLPreservesEncodedReservedChars(t *testing.T) {
	base, err := url.Parse("http://backend.internal")
	require.NoError(t, err)

	in, err := url.Parse("/files/a%2Fb")
	require.NoError(t, err)

	got := composeTargetURL(base, in)

	assert.Equal(t, "/files/a%2Fb", got.EscapedPath())
}

func TestComposeTargetURLJoinsBasePathAsPrefix(t *testing.T) {
	base, err := url.Parse("http://backend.internal/api/")
	require.NoError(t, err)

	in, err := url.Parse("/widgets/7")
	require.NoError(t, err)

	got := composeTargetURL(base, in)

	assert.Equal(t, "/api/widgets/7", got.Path)
}

func TestComposeTargetURLCombinesQueries(t *testing.T) {
	base, err := url.Parse("http://backend.internal?tenant=acme")
	require.NoError(t, err)

	in, err := url.Parse("/?page=2")
	require.NoError(t, err)

	got := composeTargetURL(base, in)

	assert.Equal(t, "tenant=acme&page=2", got.RawQuery)
}
