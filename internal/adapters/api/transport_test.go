package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		path    string
		query   url.Values
		want    string
		wantErr string
	}{
		{name: "joins path", base: "http://127.0.0.1:8000", path: "/posts/", want: "http://127.0.0.1:8000/posts/"},
		{name: "keeps base prefix", base: "https://api.example.com/v1", path: "/posts/7/like-toggle/", want: "https://api.example.com/v1/posts/7/like-toggle/"},
		{name: "merges query", base: "http://h", path: "/posts/", query: url.Values{"page": {"2"}}, want: "http://h/posts/?page=2"},
		{name: "accepts same-host absolute next link", base: "http://h", path: "http://h/posts/?cursor=abc", want: "http://h/posts/?cursor=abc"},
		{name: "rejects foreign host", base: "http://h", path: "http://evil/posts/", wantErr: "leaves the api host"},
		{name: "rejects empty base", base: "", path: "/x", wantErr: "base url is required"},
		{name: "rejects bad scheme", base: "ftp://h", path: "/x", wantErr: "http or https"},
		{name: "rejects empty path", base: "http://h", path: "", wantErr: "path is required"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := BuildURL(tc.base, tc.path, tc.query)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransportSendAttachesBearerAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/requests/", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "widget", body["item"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(server.Close)

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client()}
	resp, err := transport.Send(context.Background(), domain.Request{
		Method: http.MethodPost,
		Path:   "/requests/",
		Body:   map[string]any{"item": "widget"},
		Header: http.Header{"X-Request-Id": {"req-1"}},
	}, "access-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1}`, string(resp.Body))
}

func TestTransportSendOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client()}
	resp, err := transport.Send(context.Background(), domain.Request{Path: "/posts/"}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransportSendMapsConnectionFailureToTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	transport := Transport{BaseURL: baseURL}
	_, err := transport.Send(context.Background(), domain.Request{Path: "/posts/"}, "access-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransientNetworkFailure)
}

func TestTransportSendRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes+1)))
	}))
	t.Cleanup(server.Close)

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client()}
	_, err := transport.Send(context.Background(), domain.Request{Path: "/posts/"}, "access-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.ErrorIs(t, err, domain.ErrServerFailure)
	assert.ErrorContains(t, err, "response too large")
}

func TestTransportSendAcceptsBodyAtLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes)))
	}))
	t.Cleanup(server.Close)

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client()}
	resp, err := transport.Send(context.Background(), domain.Request{Path: "/posts/"}, "access-1")
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxResponseBytes)
}

func TestTransportSendTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client(), RequestTimeout: 20 * time.Millisecond}
	_, err := transport.Send(context.Background(), domain.Request{Path: "/posts/"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransientNetworkFailure)
}

func TestTransportSendReturnsCallerCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := Transport{BaseURL: server.URL, HTTPClient: server.Client()}
	_, err := transport.Send(ctx, domain.Request{Path: "/posts/"}, "")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTransientNetworkFailure)
}

func TestDecodeResponseClassifiesStatus(t *testing.T) {
	t.Parallel()

	var out map[string]any
	err := DecodeResponse(&domain.Response{StatusCode: http.StatusBadRequest, Body: []byte(`{"title":["required"]}`)}, &out)
	require.ErrorIs(t, err, domain.ErrValidationFailure)
	assert.ErrorContains(t, err, `{"title":["required"]}`)

	err = DecodeResponse(&domain.Response{StatusCode: http.StatusOK, Body: []byte(`not json`)}, &out)
	require.ErrorIs(t, err, domain.ErrServerFailure)

	require.NoError(t, DecodeResponse(&domain.Response{StatusCode: http.StatusNoContent}, &out))
}
