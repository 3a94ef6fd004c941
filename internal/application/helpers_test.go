package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type memSecrets struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSecrets() *memSecrets {
	return &memSecrets{values: map[string]string{}}
}

func (m *memSecrets) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("memory secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (m *memSecrets) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memSecrets) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memSecrets) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

type recordingMetrics struct {
	mu        sync.Mutex
	refreshes map[ports.RefreshOutcome]int
	attempts  int
	replays   int
	pages     int
	mutations map[ports.MutationOutcome]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		refreshes: map[ports.RefreshOutcome]int{},
		mutations: map[ports.MutationOutcome]int{},
	}
}

func (r *recordingMetrics) RefreshCompleted(outcome ports.RefreshOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes[outcome]++
}

func (r *recordingMetrics) RequestAttempt(replay bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if replay {
		r.replays++
	}
}

func (r *recordingMetrics) FeedPageLoaded(string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages++
}

func (r *recordingMetrics) MutationSettled(_ domain.MutationKind, outcome ports.MutationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations[outcome]++
}

func (r *recordingMetrics) refreshCount(outcome ports.RefreshOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes[outcome]
}

func (r *recordingMetrics) mutationCount(outcome ports.MutationOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutations[outcome]
}

// fakeGateway renews to access-<n> and counts network renewals. A non-nil
// gate blocks every renewal until it is closed.
type fakeGateway struct {
	calls   atomic.Int32
	gate    chan struct{}
	err     error
	rotate  bool
	started chan struct{}
	once    sync.Once
}

func (g *fakeGateway) Login(_ context.Context, credentials domain.Credentials) (domain.Session, error) {
	return domain.Session{AccessToken: "access-login", RefreshToken: "refresh-login"}, nil
}

func (g *fakeGateway) Refresh(ctx context.Context, refreshToken string) (domain.RenewedAccess, error) {
	n := g.calls.Add(1)
	if g.started != nil {
		g.once.Do(func() { close(g.started) })
	}
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return domain.RenewedAccess{}, ctx.Err()
		}
	}
	if g.err != nil {
		return domain.RenewedAccess{}, g.err
	}

	renewed := domain.RenewedAccess{AccessToken: fmt.Sprintf("access-%d", n+1)}
	if g.rotate {
		renewed.RefreshToken = fmt.Sprintf("refresh-%d", n+1)
	}
	return renewed, nil
}

func loggedInStore(secrets ports.SecretStore, session domain.Session) *CredentialStore {
	store := NewCredentialStore(secrets, DefaultNamespace, "default")
	if err := store.Set(context.Background(), session); err != nil {
		panic(err)
	}
	return store
}

var initialSession = domain.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}
