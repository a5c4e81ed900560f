package helper

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"refund-relay/internal/pkg/logger"
)

// HTTPClientConfig configures outbound clients for third-party APIs.
type HTTPClientConfig struct {
	ProxyURL      string
	SkipTLSVerify bool
	// RequestTimeout in seconds; 0 leaves deadlines to the request context.
	RequestTimeout int
}

// NewHTTPClient builds a client with sane dial/TLS timeouts and an optional
// outbound proxy.
func NewHTTPClient(cfg *HTTPClientConfig) *http.Client {
	if cfg == nil {
		cfg = &HTTPClientConfig{}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.SkipTLSVerify,
		},
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			logger.Error.Printf("Invalid proxy URL: %v", err)
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.Debug.Printf("Using proxy: %s", proxyURL.Redacted())
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
	}
}
