package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const maxErrorBodyBytes = 4096

// doJSON performs one API call with the client's retry policy. `operation`
// is a short name used for metrics and error messages. `out` may be nil for
// calls whose response body is irrelevant.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", operation, err)
		}
	}

	attempt := func() error {
		apiRequestsTotal.WithLabelValues(operation).Inc()

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if len(query) > 0 {
			req.URL.RawQuery = query.Encode()
		}
		req.Header.Set("X-Request-Id", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.loginUserID != "" {
			req.SetBasicAuth(c.loginUserID, c.loginPassword)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			apiRequestFailuresTotal.WithLabelValues(operation).Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			apiRequestRetriesTotal.WithLabelValues(operation).Inc()
			return newNetworkError(operation, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			apiRequestFailuresTotal.WithLabelValues(operation).Inc()
			b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
			apiErr := newHTTPError(resp.StatusCode, string(b), operation)
			if apiErr.Category == Irrecoverable {
				return backoff.Permanent(error(apiErr))
			}
			apiRequestRetriesTotal.WithLabelValues(operation).Inc()
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: decode response: %w", operation, err))
		}
		return nil
	}

	return backoff.Retry(attempt, c.newBackOff(ctx))
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	if c.retryElapsed == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.retryElapsed
	return backoff.WithContext(bo, ctx)
}
