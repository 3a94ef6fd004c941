package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

const defaultRequestTimeout = 30 * time.Second

var ErrResponseTooLarge = errors.New("response too large")

// Transport is the HTTP leg shared by the auth gateway and the request
// executor.
type Transport struct {
	BaseURL        string
	HTTPClient     ports.HTTPClient
	RequestTimeout time.Duration
}

var _ ports.Transport = Transport{}

func (t Transport) Send(ctx context.Context, req domain.Request, accessToken string) (*domain.Response, error) {
	endpoint, err := BuildURL(t.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	requestCtx, cancel := t.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := t.httpClient().Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.NewTransientError(fmt.Errorf("%s %s: %w", method, req.Path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, domain.NewTransientError(fmt.Errorf("read response: %w", err))
	}
	if len(payload) > maxResponseBytes {
		return nil, &domain.RequestError{
			Kind:       domain.ErrorKindServer,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s %s: %w (limit %d bytes)", method, req.Path, ErrResponseTooLarge, maxResponseBytes),
		}
	}

	return &domain.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       payload,
	}, nil
}

func (t Transport) httpClient() ports.HTTPClient {
	if t.HTTPClient != nil {
		return t.HTTPClient
	}
	return http.DefaultClient
}

func (t Transport) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := t.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}
