package discovery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/seoaudit/engine/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkSitemaps_FlatSitemapReturnsURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><urlset>
			<url><loc>` + "http://" + r.Host + `/a</loc></url>
			<url><loc>` + "http://" + r.Host + `/b</loc></url>
		</urlset>`))
	}))
	defer server.Close()

	seed, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	urls := discovery.WalkSitemaps(context.Background(), server.Client(), seed, []string{"/sitemap.xml"})

	assert.Len(t, urls, 2)
}

func TestWalkSitemaps_RecursesIntoIndex(t *testing.T) {
	var host string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			w.Write([]byte(`<?xml version="1.0"?><sitemapindex>
				<sitemap><loc>http://` + host + `/sitemap-1.xml</loc></sitemap>
			</sitemapindex>`))
		case "/sitemap-1.xml":
			w.Write([]byte(`<?xml version="1.0"?><urlset>
				<url><loc>http://` + host + `/page</loc></url>
			</urlset>`))
		}
	}))
	defer server.Close()
	host = server.Listener.Addr().String()

	seed, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	urls := discovery.WalkSitemaps(context.Background(), server.Client(), seed, []string{"/sitemap.xml"})

	require.Len(t, urls, 1)
	assert.Equal(t, "http://"+host+"/page", urls[0])
}

func TestWalkSitemaps_DropsOffHostURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><urlset>
			<url><loc>https://other-host.example.com/x</loc></url>
		</urlset>`))
	}))
	defer server.Close()

	seed, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	urls := discovery.WalkSitemaps(context.Background(), server.Client(), seed, []string{"/sitemap.xml"})

	assert.Empty(t, urls)
}
