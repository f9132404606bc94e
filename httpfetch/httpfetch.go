// Package httpfetch provides refreshable Fetch functions that load a value over HTTP.
package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	logging "github.com/ipfs/go-log/v2"

	"github.com/softwaretechnik-berlin/refreshable"
	"github.com/softwaretechnik-berlin/refreshable/remote"
)

var log = logging.Logger("refreshable/httpfetch")

// StatusError is the failure recorded for a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Decoder turns a successful response body into a value.
type Decoder[A any] func(body io.Reader) (A, error)

// DecodeJSON is a Decoder for JSON bodies.
func DecodeJSON[A any](body io.Reader) (A, error) {
	var a A
	err := json.NewDecoder(body).Decode(&a)
	return a, err
}

type config[A any] struct {
	decode Decoder[A]
	header http.Header
}

// Option configures a Fetch built by New.
type Option[A any] func(*config[A])

// WithDecoder sets the Decoder used for response bodies. The default is DecodeJSON.
func WithDecoder[A any](decode Decoder[A]) Option[A] {
	return func(c *config[A]) {
		if decode != nil {
			c.decode = decode
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader[A any](key, value string) Option[A] {
	return func(c *config[A]) {
		c.header.Add(key, value)
	}
}

// New returns a Fetch that GETs url with client and decodes the response body.
//
// Retries are up to the client; a nil client is replaced by one that doesn't retry and passes the last response
// through. Transport errors, non-2xx responses and undecodable bodies are all reported as failures.
func New[A any](client *retryablehttp.Client, url string, opts ...Option[A]) refreshable.Fetch[error, A] {
	if client == nil {
		client = retryablehttp.NewClient()
		client.RetryMax = 0
		client.Logger = nil
		client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	}
	c := &config[A]{decode: DecodeJSON[A], header: make(http.Header)}
	for _, opt := range opts {
		opt(c)
	}
	return func(ctx context.Context) remote.Either[error, A] {
		a, err := c.get(ctx, client, url)
		if err != nil {
			log.Debugw("Fetch failed", "url", url, "err", err)
		}
		return remote.EitherFromResult(a, err)
	}
}

func (c *config[A]) get(ctx context.Context, client *retryablehttp.Client, url string) (A, error) {
	var zero A
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, fmt.Errorf("cannot create request: %w", err)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// an ErrorHandler may hand back both the last response and an error
	resp, err := client.Do(req)
	if resp == nil {
		return zero, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return zero, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err != nil {
		return zero, fmt.Errorf("GET %s: %w", url, err)
	}

	a, err := c.decode(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("cannot decode response from %s: %w", url, err)
	}
	return a, nil
}
