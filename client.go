package stretch

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

func newClient(o Option) *resty.Client {
	client := resty.New()

	if o.Timeout > 0 {
		client.SetTimeout(o.Timeout)
	}

	if o.RetryCount > 0 {
		client.SetRetryCount(o.RetryCount)
	}

	if o.Headers != nil {
		client.Header = o.Headers.Clone()
	}

	if o.UserAgent != "" {
		client.SetHeader("User-Agent", o.UserAgent)
	}

	if o.Debug {
		client.SetDebug(true)
	}

	if o.NoCache {
		if o.Proxy != "" {
			client.SetProxy(o.Proxy)
		}
		return client
	}

	cachePath := filepath.Join(os.TempDir(), "stretch_cache")
	cache := diskcache.New(cachePath)
	transport := httpcache.NewTransport(cache)
	// The cache transport replaces resty's own, so the proxy has to live on
	// the inner transport it delegates to.
	if o.Proxy != "" {
		if proxyURL, err := url.Parse(o.Proxy); err == nil {
			inner := http.DefaultTransport.(*http.Transport).Clone()
			inner.Proxy = http.ProxyURL(proxyURL)
			transport.Transport = inner
		}
	}
	client.SetTransport(transport)

	return client
}
