package fetcher_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/MichalMitros/pod-sync/internal/fetcher"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userAgent   = "test/0.0.0"
	provider    = "printify"
	response    = `{"hello":"world"}`
	endpoint    = "/v1/products.json"
	contentType = "Content-Type"
	token       = "secret-token"
)

func TestUnitFetch(t *testing.T) {
	wantHeaders := map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "application/json",
		"Accept-Encoding": "gzip",
		"Authorization":   "Bearer " + token,
	}

	tests := map[string]struct {
		serverHandler http.Handler
		wantBody      string
		wantErr       error
		wantErrAs     any
	}{
		"ok json": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				assert.Equal(t, "2", req.URL.Query().Get("page"), "should pass query")
				wrt.Header().Add(contentType, "application/json; charset=utf-8")
				wrt.Write([]byte(response))
			}),
			wantBody: response,
		},
		"ok gzip": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "application/json")
				wrt.Header().Add("Content-Encoding", "gzip")
				compressedWrt := gzip.NewWriter(wrt)
				compressedWrt.Write([]byte(response))
				compressedWrt.Close()
			}),
			wantBody: response,
		},
		"unauthorized": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.Header().Add(contentType, "application/json")
				wrt.WriteHeader(http.StatusUnauthorized)
				wrt.Write([]byte(`{"message":"invalid token"}`))
			}),
			wantErrAs: new(*platform.AuthError),
		},
		"rate limited": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.Header().Add("Retry-After", "30")
				wrt.WriteHeader(http.StatusTooManyRequests)
			}),
			wantErrAs: new(*platform.RateLimitError),
		},
		"rejected payload": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusUnprocessableEntity)
				wrt.Write([]byte(`{"errors":{"sku":"malformed"}}`))
			}),
			wantErrAs: new(*platform.ValidationError),
		},
		"server error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusBadGateway)
			}),
			wantErrAs: new(*platform.ProviderError),
		},
		"bad content type error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.Header().Add(contentType, "text/html")
				wrt.Write([]byte("<html></html>"))
			}),
			wantErr: fetcher.ErrContentTypeNotSupported,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(tt.serverHandler)
			t.Cleanup(func() {
				srv.Close()
			})

			fet := newFetcher(srv)
			resp, err := fet.Fetch(context.TODO(), http.MethodGet, endpoint, url.Values{"page": {"2"}}, nil)

			if tt.wantErrAs != nil {
				require.ErrorAs(t, err, tt.wantErrAs, "should return classified error")
				return
			}

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, readAndClose(t, resp), "should return correct response")
			}
		})
	}
}

func TestUnitFetchRetryAfter(t *testing.T) {
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		header string
		value  string
		want   time.Duration
	}{
		"seconds":    {header: "Retry-After", value: "30", want: 30 * time.Second},
		"http date":  {header: "Retry-After", value: now.Add(2 * time.Minute).Format(http.TimeFormat), want: 2 * time.Minute},
		"reset":      {header: "X-Ratelimit-Reset", value: "5", want: 5 * time.Second},
		"missing":    {want: fetcher.DefaultRetryAfter},
		"unparsable": {header: "Retry-After", value: "soon", want: fetcher.DefaultRetryAfter},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				if tt.header != "" {
					wrt.Header().Add(tt.header, tt.value)
				}
				wrt.WriteHeader(http.StatusTooManyRequests)
			}))
			t.Cleanup(srv.Close)

			fet := fetcher.NewFetcher(srv.Client(), userAgent, provider, srv.URL, fetcher.WithClock(func() time.Time { return now }))
			_, err := fet.Fetch(context.TODO(), http.MethodGet, endpoint, nil, nil)

			retryAfter, ok := platform.RetryAfter(err)
			require.True(t, ok, "should return rate limit error")
			assert.Equal(t, tt.want, retryAfter, "should read retry delay")
			assert.True(t, platform.IsRetryable(err), "should be retryable")
		})
	}
}

func TestUnitFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {}))
	srv.Close()

	fet := newFetcher(srv)
	_, err := fet.Fetch(context.TODO(), http.MethodGet, endpoint, nil, nil)

	var networkErr *platform.NetworkError
	require.ErrorAs(t, err, &networkErr, "should return network error")
	assert.True(t, platform.IsRetryable(err), "network error should be retryable")
}

func TestUnitFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.Timeout = 20 * time.Millisecond

	fet := fetcher.NewFetcher(client, userAgent, provider, srv.URL)
	_, err := fet.Fetch(context.TODO(), http.MethodGet, endpoint, nil, nil)

	var networkErr *platform.NetworkError
	require.ErrorAs(t, err, &networkErr, "timeout should be reported as network error")
}

func TestUnitDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"title":"mug"}`, string(body), "should send json body")
		assert.Equal(t, "application/json", req.Header.Get(contentType), "should set content type")
		wrt.Header().Add(contentType, "application/json")
		wrt.Write([]byte(`{"id":"42"}`))
	}))
	t.Cleanup(srv.Close)

	var out struct {
		ID string `json:"id"`
	}
	err := newFetcher(srv).Do(context.TODO(), http.MethodPost, endpoint, nil, map[string]string{"title": "mug"}, &out)

	require.NoError(t, err, "shouldn't return error")
	assert.Equal(t, "42", out.ID, "should decode response")
}

func newFetcher(srv *httptest.Server) *fetcher.Fetcher {
	return fetcher.NewFetcher(srv.Client(), userAgent, provider, srv.URL,
		fetcher.WithAuthorizer(func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		}),
	)
}

// readAndClose reads ReadCloser, closes it and returns result as string.
func readAndClose(t *testing.T, reader io.ReadCloser) string {
	t.Helper()

	if !assert.NotNil(t, reader, "reader shouldn't be nil") {
		return ""
	}

	result, err := io.ReadAll(reader)
	if !assert.NoError(t, err, "can't read reader") {
		return ""
	}

	assert.NoError(t, reader.Close(), "can't close reader")

	return string(result)
}

// validateHeaders checks that request contains expected headers.
func validateHeaders(t *testing.T, headers http.Header, expected map[string]string) {
	t.Helper()

	for header, expectedValue := range expected {
		assert.Equalf(t, expectedValue, headers.Get(header), "request should contain correct value for header %s", header)
	}
}
