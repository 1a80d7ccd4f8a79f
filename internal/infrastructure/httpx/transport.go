// Package httpx builds the outbound HTTP client used for routing lookups.
package httpx

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs one line per outbound request
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// RoundTrip implements http.RoundTripper
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Logger == nil {
		return t.transport().RoundTrip(req)
	}

	start := time.Now()
	resp, err := t.transport().RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Duration("latency", time.Since(start)),
	}

	if err != nil {
		t.Logger.Warn("Outbound request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	t.Logger.Debug("Outbound request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

func (t *LoggingRoundTripper) transport() http.RoundTripper {
	if t.Transport == nil {
		return http.DefaultTransport
	}
	return t.Transport
}

// HeaderRoundTripper sets fixed headers on every request
type HeaderRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements http.RoundTripper
func (t *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}

// ClientOptions configures NewClient
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
	Transport http.RoundTripper
}

// NewClient returns an http.Client with request logging and a User-Agent
func NewClient(opts ClientOptions) *http.Client {
	var rt http.RoundTripper = &LoggingRoundTripper{
		Transport: opts.Transport,
		Logger:    opts.Logger,
	}
	if opts.UserAgent != "" {
		rt = &HeaderRoundTripper{
			Transport: rt,
			Headers:   map[string]string{"User-Agent": opts.UserAgent},
		}
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
	}
}
