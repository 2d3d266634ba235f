package stretch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gregjones/httpcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientProxyWithCache(t *testing.T) {
	client := newClient(Option{Proxy: "http://127.0.0.1:3128"})

	cached, ok := client.GetClient().Transport.(*httpcache.Transport)
	require.True(t, ok, "caching enabled by default")

	inner, ok := cached.Transport.(*http.Transport)
	require.True(t, ok, "proxy lives on the inner transport")
	require.NotNil(t, inner.Proxy)

	proxyURL, err := inner.Proxy(httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	require.NoError(t, err)
	require.NotNil(t, proxyURL)
	assert.Equal(t, "127.0.0.1:3128", proxyURL.Host)
}

func TestNewClientProxyWithoutCache(t *testing.T) {
	client := newClient(Option{Proxy: "http://127.0.0.1:3128", NoCache: true})

	transport, ok := client.GetClient().Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.Proxy)

	proxyURL, err := transport.Proxy(httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	require.NoError(t, err)
	require.NotNil(t, proxyURL)
	assert.Equal(t, "127.0.0.1:3128", proxyURL.Host)
}

func TestNewClientNoCacheSkipsCacheTransport(t *testing.T) {
	client := newClient(Option{NoCache: true})

	_, isCache := client.GetClient().Transport.(*httpcache.Transport)
	assert.False(t, isCache)
}
