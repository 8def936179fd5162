package urlkey_test

import (
	"net/url"
	"testing"

	"github.com/seoaudit/engine/internal/urlkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_StripsWWWAndDefaultPort(t *testing.T) {
	u, err := url.Parse("https://WWW.Example.com:443/Path/")
	require.NoError(t, err)

	got := urlkey.Normalize(u)

	assert.Equal(t, "https://example.com/Path", got)
}

func TestNormalize_DropsFragmentKeepsQuery(t *testing.T) {
	u, err := url.Parse("https://example.com/page?b=2&a=1#section")
	require.NoError(t, err)

	got := urlkey.Normalize(u)

	assert.Equal(t, "https://example.com/page?a=1&b=2", got)
}

func TestNormalize_RootPathNeverStripped(t *testing.T) {
	u, err := url.Parse("http://example.com")
	require.NoError(t, err)

	got := urlkey.Normalize(u)

	assert.Equal(t, "http://example.com/", got)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := "https://WWW.Example.com:443/a/b/?z=1&a=2#frag"
	u, err := url.Parse(raw)
	require.NoError(t, err)

	once := urlkey.Normalize(u)

	reparsed, err := url.Parse(once)
	require.NoError(t, err)
	twice := urlkey.Normalize(reparsed)

	assert.Equal(t, once, twice)
}

func TestNormalizeString_InvalidURLReturnsError(t *testing.T) {
	_, err := urlkey.NormalizeString("http://[::1")
	assert.Error(t, err)
}
