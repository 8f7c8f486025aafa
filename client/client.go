// Package client is a typed REST client for the Annowork workspace
// management API. It is the only component that talks to the network;
// everything above it consumes fully fetched snapshots.
package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultEndpointURL is the production Annowork endpoint.
const DefaultEndpointURL = "https://annowork.com"

const defaultHTTPTimeout = 30 * time.Second

// defaultRetryElapsed bounds the total time spent retrying one call.
const defaultRetryElapsed = 30 * time.Second

// --------------------------------------------------------------------
// debugTransport – optional HTTP round-trip logger
// --------------------------------------------------------------------

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqDump, err := httputil.DumpRequestOut(req, true)
	if err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	respDump, err := httputil.DumpResponse(resp, true)
	if err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to one Annowork endpoint. All methods are synchronous and
// context-first; retry on recoverable failures is handled internally.
type Client struct {
	baseURL string
	http    *http.Client

	loginUserID   string
	loginPassword string

	retryElapsed time.Duration
}

// New constructs a Client with optional functional arguments.
func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		base = DefaultEndpointURL
	}
	c := &Client{
		baseURL:      base,
		http:         &http.Client{Timeout: defaultHTTPTimeout},
		retryElapsed: defaultRetryElapsed,
	}

	// Auto-enable debug via env variable without changing code.
	if os.Getenv("ANNOWORK_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew constructs a Client with panic-on-error semantics (for testing).
func MustNew(base string, opts ...Option) *Client {
	c, err := New(base, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// EndpointURL returns the base URL the client was constructed with.
func (c *Client) EndpointURL() string { return c.baseURL }
