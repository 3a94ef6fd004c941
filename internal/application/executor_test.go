package application

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestExecutor(t *testing.T, session *domain.Session, gateway *fakeGateway) (*Executor, *mocks.MockTransport, *CredentialStore, *recordingMetrics) {
	t.Helper()

	store := NewCredentialStore(newMemSecrets(), DefaultNamespace, "default")
	if session != nil {
		require.NoError(t, store.Set(context.Background(), *session))
	}
	metrics := newRecordingMetrics()
	transport := mocks.NewMockTransport(t)
	coordinator := NewRefreshCoordinator(store, gateway, time.Second, WithMetrics(metrics))
	executor := NewExecutor(transport, store, coordinator, WithMetrics(metrics))
	return executor, transport, store, metrics
}

func TestExecutorWithoutSessionMakesNoCall(t *testing.T) {
	t.Parallel()

	executor, _, _, metrics := newTestExecutor(t, nil, &fakeGateway{})

	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, metrics.attempts)
}

func TestExecutorPassesThroughNon401Responses(t *testing.T) {
	t.Parallel()

	session := initialSession
	executor, transport, _, _ := newTestExecutor(t, &session, &fakeGateway{})

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError} {
		transport.EXPECT().
			Send(mockAnyContext(), mock.MatchedBy(func(req domain.Request) bool {
				return req.Header.Get(RequestIDHeader) != ""
			}), "access-1").
			Return(&domain.Response{StatusCode: status, Body: []byte("body")}, nil).
			Once()

		resp, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, []byte("body"), resp.Body)
	}
}

func TestExecutorRenewsAndReplaysOnceOn401(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	executor, transport, store, metrics := newTestExecutor(t, &session, gateway)

	var requestIDs []string
	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-1").
		Run(func(_ context.Context, req domain.Request, _ string) {
			requestIDs = append(requestIDs, req.Header.Get(RequestIDHeader))
		}).
		Return(&domain.Response{StatusCode: http.StatusUnauthorized}, nil).Once()
	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-2").
		Run(func(_ context.Context, req domain.Request, _ string) {
			requestIDs = append(requestIDs, req.Header.Get(RequestIDHeader))
		}).
		Return(&domain.Response{StatusCode: http.StatusOK}, nil).Once()

	resp, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), gateway.calls.Load())
	assert.Equal(t, 2, metrics.attempts)
	assert.Equal(t, 1, metrics.replays)

	require.Len(t, requestIDs, 2)
	assert.NotEmpty(t, requestIDs[0])
	assert.Equal(t, requestIDs[0], requestIDs[1])

	current, _ := store.Session()
	assert.Equal(t, "access-2", current.AccessToken)
}

func TestExecutorReturnsSecond401Unchanged(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	executor, transport, _, metrics := newTestExecutor(t, &session, gateway)

	transport.EXPECT().Send(mockAnyContext(), mock.Anything, mock.Anything).
		Return(&domain.Response{StatusCode: http.StatusUnauthorized, Body: []byte("nope")}, nil).Twice()

	resp, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 2, metrics.attempts)
	assert.Equal(t, int32(1), gateway.calls.Load())
}

func TestExecutorPropagatesSessionExpiry(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{err: &domain.RequestError{Kind: domain.ErrorKindSessionExpired, StatusCode: http.StatusUnauthorized}}
	executor, transport, store, metrics := newTestExecutor(t, &session, gateway)

	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-1").
		Return(&domain.Response{StatusCode: http.StatusUnauthorized}, nil).Once()

	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodPost, Path: "/posts/1/like-toggle/"})
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, metrics.attempts)
	assert.Equal(t, domain.AuthStateLoggedOut, store.State())
}

func TestExecutorMapsTransportFailureToTransient(t *testing.T) {
	t.Parallel()

	session := initialSession
	executor, transport, store, _ := newTestExecutor(t, &session, &fakeGateway{})

	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-1").
		Return(nil, domain.NewTransientError(errors.New("connection refused"))).Once()

	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.ErrorIs(t, err, domain.ErrTransientNetworkFailure)
	assert.Equal(t, domain.AuthStateLoggedIn, store.State())
}

func TestExecutorConcurrent401sShareOneRenewal(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	executor, transport, _, metrics := newTestExecutor(t, &session, gateway)

	transport.EXPECT().Send(mockAnyContext(), mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ domain.Request, token string) (*domain.Response, error) {
			if token == "access-1" {
				return &domain.Response{StatusCode: http.StatusUnauthorized}, nil
			}
			return &domain.Response{StatusCode: http.StatusOK}, nil
		})

	const callers = 8
	var wg sync.WaitGroup
	statuses := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
			if assert.NoError(t, err) {
				statuses[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), gateway.calls.Load())
	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	assert.LessOrEqual(t, metrics.attempts, 2*callers)
}

func TestExecutorRenewsProactivelyBeforeExpiry(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	store := NewCredentialStore(newMemSecrets(), DefaultNamespace, "default")
	require.NoError(t, store.Set(context.Background(), session))
	transport := mocks.NewMockTransport(t)
	inspector := mocks.NewMockTokenInspector(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	executor := NewExecutor(transport, store, NewRefreshCoordinator(store, gateway, time.Second), WithClock(fixedClock{now: now})).
		WithProactiveRefresh(inspector, 30*time.Second)

	inspector.EXPECT().ExpiresAt("access-1").Return(now.Add(10*time.Second), true).Once()
	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-2").
		Return(&domain.Response{StatusCode: http.StatusOK}, nil).Once()

	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), gateway.calls.Load())
}

func TestExecutorRenewsOnceWhenProactiveTokenIsRejected(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	store := NewCredentialStore(newMemSecrets(), DefaultNamespace, "default")
	require.NoError(t, store.Set(context.Background(), session))
	transport := mocks.NewMockTransport(t)
	inspector := mocks.NewMockTokenInspector(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	executor := NewExecutor(transport, store, NewRefreshCoordinator(store, gateway, time.Second), WithClock(fixedClock{now: now})).
		WithProactiveRefresh(inspector, 30*time.Second)

	inspector.EXPECT().ExpiresAt("access-1").Return(now.Add(10*time.Second), true).Once()
	transport.EXPECT().Send(mockAnyContext(), mock.Anything, mock.Anything).
		Return(&domain.Response{StatusCode: http.StatusUnauthorized}, nil)

	resp, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), gateway.calls.Load())
	transport.AssertNumberOfCalls(t, "Send", 1)
}

func TestExecutorSkipsProactiveRenewalForFreshToken(t *testing.T) {
	t.Parallel()

	session := initialSession
	gateway := &fakeGateway{}
	store := NewCredentialStore(newMemSecrets(), DefaultNamespace, "default")
	require.NoError(t, store.Set(context.Background(), session))
	transport := mocks.NewMockTransport(t)
	inspector := mocks.NewMockTokenInspector(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	executor := NewExecutor(transport, store, NewRefreshCoordinator(store, gateway, time.Second), WithClock(fixedClock{now: now})).
		WithProactiveRefresh(inspector, 30*time.Second)

	inspector.EXPECT().ExpiresAt("access-1").Return(now.Add(5*time.Minute), true).Once()
	transport.EXPECT().Send(mockAnyContext(), mock.Anything, "access-1").
		Return(&domain.Response{StatusCode: http.StatusOK}, nil).Once()

	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/"})
	require.NoError(t, err)
	assert.Equal(t, int32(0), gateway.calls.Load())
}

func TestExecutorKeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	session := initialSession
	executor, transport, _, _ := newTestExecutor(t, &session, &fakeGateway{})

	transport.EXPECT().Send(mockAnyContext(), mock.MatchedBy(func(req domain.Request) bool {
		return req.Header.Get(RequestIDHeader) == "caller-id"
	}), "access-1").Return(&domain.Response{StatusCode: http.StatusOK}, nil).Once()

	header := http.Header{}
	header.Set(RequestIDHeader, "caller-id")
	_, err := executor.Execute(context.Background(), domain.Request{Method: http.MethodGet, Path: "/posts/", Header: header})
	require.NoError(t, err)
}
