package fetch_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/seoaudit/engine/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context"
)

func TestFetch_JSHeavy_ShortTextManyScripts(t *testing.T) {
	var scripts strings.Builder
	for i := 0; i < 12; i++ {
		scripts.WriteString("<script>console.log(1)</script>")
	}
	body := `<html><body><p>short</p>` + scripts.String() + `</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	b := fetch.NewHTTPBackend()
	target, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	result := b.Fetch(context.Background(), target, "seoaudit-bot")
	require.Nil(t, result.FetchError)
	assert.True(t, result.JSHeavy)
}

func TestFetch_NotJSHeavy_OrdinaryContentPage(t *testing.T) {
	var para strings.Builder
	for i := 0; i < 250; i++ {
		para.WriteString("word ")
	}
	body := `<html><body><h1>Title</h1><p>` + para.String() + `</p></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	b := fetch.NewHTTPBackend()
	target, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	result := b.Fetch(context.Background(), target, "seoaudit-bot")
	require.Nil(t, result.FetchError)
	assert.False(t, result.JSHeavy)
}

func TestFetch_JSHeavy_SPARootMarkerEmptyBody(t *testing.T) {
	body := `<html><body><div id="root"></div><script src="/bundle.js"></script></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	b := fetch.NewHTTPBackend()
	target, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	result := b.Fetch(context.Background(), target, "seoaudit-bot")
	require.Nil(t, result.FetchError)
	assert.True(t, result.JSHeavy)
}
