package robots_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seoaudit/engine/internal/robots"
	"github.com/seoaudit/engine/internal/robots/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ParsesDisallowRules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	}))
	defer server.Close()

	f := robots.NewRobotsFetcherWithClient(nil, "seoaudit-bot", server.Client(), nil)

	result, rerr := f.Fetch(context.Background(), "http", server.Listener.Addr().String())
	require.Nil(t, rerr)
	require.NotNil(t, result.Data)

	group := result.Data.FindGroup("seoaudit-bot")
	require.NotNil(t, group)
	assert.False(t, group.Test("/private/page"))
	assert.True(t, group.Test("/public/page"))
}

func TestFetch_CachesSuccessfulResponse(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("User-agent: *\nDisallow:\n"))
	}))
	defer server.Close()

	c := cache.NewMemoryCache()
	f := robots.NewRobotsFetcherWithClient(nil, "seoaudit-bot", server.Client(), c)
	host := server.Listener.Addr().String()

	_, rerr := f.Fetch(context.Background(), "http", host)
	require.Nil(t, rerr)
	_, rerr = f.Fetch(context.Background(), "http", host)
	require.Nil(t, rerr)

	assert.Equal(t, 1, hits)
}

func TestFetch_404TreatedAsNoRestrictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := robots.NewRobotsFetcherWithClient(nil, "seoaudit-bot", server.Client(), nil)

	result, rerr := f.Fetch(context.Background(), "http", server.Listener.Addr().String())
	require.Nil(t, rerr)

	group := result.Data.FindGroup("seoaudit-bot")
	require.NotNil(t, group)
	assert.True(t, group.Test("/anything"))
}

func TestFetch_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := robots.NewRobotsFetcherWithClient(nil, "seoaudit-bot", server.Client(), nil)

	_, rerr := f.Fetch(context.Background(), "http", server.Listener.Addr().String())
	require.NotNil(t, rerr)
	assert.True(t, rerr.Retryable)
}
