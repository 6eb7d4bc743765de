package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/metrics"
	"golang.org/x/time/rate"
)

const (
	// DefaultRetryAfter is used when throttled response doesn't say when to retry.
	DefaultRetryAfter = 10 * time.Second

	maxErrorBodySize = 4 << 10
)

// Authorizer adds provider authentication to request.
type Authorizer func(req *http.Request)

// Option is custom configuration of Fetcher.
type Option func(f *Fetcher)

// Fetcher builds http requests to single provider API and classifies its failures.
type Fetcher struct {
	client    *http.Client
	userAgent string
	provider  string
	baseURL   string
	limiter   *rate.Limiter
	authorize Authorizer
	clock     func() time.Time
}

// NewFetcher returns new Fetcher sending requests to provider API under baseURL.
func NewFetcher(client *http.Client, userAgent, provider, baseURL string, ops ...Option) *Fetcher {
	f := &Fetcher{
		client:    client,
		userAgent: userAgent,
		provider:  provider,
		baseURL:   strings.TrimRight(baseURL, "/"),
		authorize: func(*http.Request) {},
		clock:     time.Now,
	}

	for _, op := range ops {
		op(f)
	}

	return f
}

// Fetch sends request and returns ReadCloser with JSON response body or error.
// The caller is responsible for closing returned ReadCloser.
func (f *Fetcher) Fetch(ctx context.Context, method, path string, query url.Values, body any) (io.ReadCloser, error) {
	req, err := f.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("can't wait for rate limiter: %w", err)
		}
	}

	start := f.clock()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ObserveProviderRequest(f.provider, 0, f.clock().Sub(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &platform.NetworkError{Provider: f.provider, Err: err}
	}
	metrics.ObserveProviderRequest(f.provider, resp.StatusCode, f.clock().Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, f.statusError(resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		_ = resp.Body.Close()
		return io.NopCloser(strings.NewReader("null")), nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		_ = resp.Body.Close()
		return nil, ErrContentTypeNotSupported
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		return decompressResponse(resp.Body)
	}

	return resp.Body, nil
}

// Do sends request and decodes JSON response into out. Nil out discards response body.
func (f *Fetcher) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	respBody, err := f.Fetch(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer respBody.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, respBody)
		return nil
	}

	if err := json.NewDecoder(respBody).Decode(out); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return &platform.ProviderError{Provider: f.provider, StatusCode: http.StatusOK, Message: "malformed response: " + err.Error()}
		}
		return &platform.NetworkError{Provider: f.provider, Err: err}
	}

	return nil
}

func (f *Fetcher) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := f.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("can't marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Accept-Encoding", "gzip")
	req.Header.Add("User-Agent", f.userAgent)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	f.authorize(req)

	return req, nil
}

func (f *Fetcher) statusError(resp *http.Response) error {
	message := readErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &platform.AuthError{Provider: f.provider, StatusCode: resp.StatusCode, Message: message}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &platform.RateLimitError{Provider: f.provider, RetryAfter: f.retryAfter(resp.Header)}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return &platform.ValidationError{Provider: f.provider, Message: message}
	default:
		return &platform.ProviderError{Provider: f.provider, StatusCode: resp.StatusCode, Message: message}
	}
}

// retryAfter reads delay from Retry-After header which may hold seconds or http date.
func (f *Fetcher) retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		value = header.Get("X-Ratelimit-Reset")
	}
	if value == "" {
		return DefaultRetryAfter
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if delay := at.Sub(f.clock()); delay > 0 {
			return delay
		}
		return 0
	}

	return DefaultRetryAfter
}

// readErrorMessage extracts human readable message from error response body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "error", "errors", "result"} {
			switch value := payload[key].(type) {
			case string:
				if value != "" {
					return value
				}
			case map[string]any, []any:
				if encoded, err := json.Marshal(value); err == nil {
					return string(encoded)
				}
			}
		}
	}

	return strings.TrimSpace(string(raw))
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decompressResponse returns io.ReadCloser with decompressed http response and error.
func decompressResponse(response io.ReadCloser) (io.ReadCloser, error) {
	decompressed, err := gzip.NewReader(response)
	if err != nil {
		_ = response.Close()
		return nil, fmt.Errorf("can't decompress response: %w", err)
	}

	return &decompressedReadCloser{
		compressed:   response,
		decompressed: decompressed,
	}, nil
}

// decompressedReadCloser wraps decompressed Reader and compressed ReadCloser.
// It reads from decompressed Reader, but closes compressed ReadCloser.
type decompressedReadCloser struct {
	compressed   io.ReadCloser
	decompressed io.Reader
}

// Read reads uncompressed bytes from underlying Reader into p.
func (r decompressedReadCloser) Read(p []byte) (n int, err error) {
	return r.decompressed.Read(p)
}

// Close closes underlying compressed ReadCloser.
func (r decompressedReadCloser) Close() error {
	return r.compressed.Close()
}

// WithLimiter sets rate limiter shared by all requests of the Fetcher.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(f *Fetcher) {
		f.limiter = limiter
	}
}

// WithAuthorizer sets function authenticating every request.
func WithAuthorizer(authorize Authorizer) Option {
	return func(f *Fetcher) {
		f.authorize = authorize
	}
}

// WithClock sets Fetcher's custom time source.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.clock = now
	}
}
