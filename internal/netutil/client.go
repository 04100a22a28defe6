package netutil

import (
	"net/http"
	"net/url"
	"time"
)

const DefaultTimeout = 30 * time.Second

// NewHTTPClient builds a client with optional proxy support. An unparsable
// proxy URL is ignored and the client connects directly.
func NewHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}
