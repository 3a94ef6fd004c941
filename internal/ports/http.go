package ports

import (
	"context"
	"net/http"

	"github.com/bnema/feedsync/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport sends a single attempt of req. A non-empty accessToken is sent as
// a bearer credential. Non-2xx answers are returned as responses, not errors.
type Transport interface {
	Send(ctx context.Context, req domain.Request, accessToken string) (*domain.Response, error)
}

// RequestExecutor issues authenticated requests.
type RequestExecutor interface {
	Execute(ctx context.Context, req domain.Request) (*domain.Response, error)
}
