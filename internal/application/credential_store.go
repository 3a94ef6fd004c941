package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

const DefaultNamespace = "feedsync"

// SessionKeys returns the durable keys holding the access and refresh tokens
// of a profile.
func SessionKeys(namespace, profile string) (accessKey, refreshKey string) {
	namespace = strings.Trim(strings.TrimSpace(namespace), "/")
	if namespace == "" {
		namespace = DefaultNamespace
	}
	profile = strings.Trim(strings.TrimSpace(profile), "/")
	if profile == "" {
		profile = "default"
	}
	prefix := namespace + "/" + profile + "/"
	return prefix + "access_token", prefix + "refresh_token"
}

// CredentialStore is the single authoritative copy of the session. Reads come
// from memory; writes update memory first and then the durable store.
type CredentialStore struct {
	secrets    ports.SecretStore
	accessKey  string
	refreshKey string
	logger     *slog.Logger

	writeMu sync.Mutex

	mu         sync.RWMutex
	session    domain.Session
	present    bool
	version    uint64
	listeners  map[int]func(domain.AuthState)
	nextHandle int
}

func NewCredentialStore(secrets ports.SecretStore, namespace, profile string, opts ...Option) *CredentialStore {
	s := newSettings(opts)
	accessKey, refreshKey := SessionKeys(namespace, profile)

	return &CredentialStore{
		secrets:    secrets,
		accessKey:  accessKey,
		refreshKey: refreshKey,
		logger:     s.logger.With("component", "credential_store"),
		listeners:  map[int]func(domain.AuthState){},
	}
}

// Load hydrates the in-memory session from durable storage. A half-written
// session (one key missing) is treated as absent.
func (c *CredentialStore) Load(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	access, err := c.read(ctx, c.accessKey)
	if err != nil {
		return err
	}
	refresh, err := c.read(ctx, c.refreshKey)
	if err != nil {
		return err
	}

	session := domain.Session{AccessToken: access, RefreshToken: refresh}
	if !session.Valid() {
		c.update(domain.Session{}, false)
		return nil
	}

	c.update(session, true)
	return nil
}

func (c *CredentialStore) read(ctx context.Context, key string) (string, error) {
	value, err := c.secrets.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load session key %q: %w", key, err)
	}
	return strings.TrimSpace(value), nil
}

func (c *CredentialStore) Session() (domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session, c.present
}

func (c *CredentialStore) State() domain.AuthState {
	if _, ok := c.Session(); ok {
		return domain.AuthStateLoggedIn
	}
	return domain.AuthStateLoggedOut
}

// Version increases on every Set and Clear.
func (c *CredentialStore) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Set replaces the session. The in-memory value is updated even when the
// durable write fails, in which case the write error is returned.
func (c *CredentialStore) Set(ctx context.Context, session domain.Session) error {
	if !session.Valid() {
		return errors.New("session requires access and refresh tokens")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.setLocked(ctx, session)
}

// CompareAndSet replaces the session only if no Set or Clear happened since
// expectedVersion was observed.
func (c *CredentialStore) CompareAndSet(ctx context.Context, expectedVersion uint64, session domain.Session) (bool, error) {
	if !session.Valid() {
		return false, errors.New("session requires access and refresh tokens")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.Version() != expectedVersion {
		return false, nil
	}

	return true, c.setLocked(ctx, session)
}

func (c *CredentialStore) setLocked(ctx context.Context, session domain.Session) error {
	c.update(session, true)

	if err := c.secrets.Put(ctx, c.refreshKey, session.RefreshToken); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	if err := c.secrets.Put(ctx, c.accessKey, session.AccessToken); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}

	return nil
}

// Clear removes the session from memory and durable storage.
func (c *CredentialStore) Clear(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.update(domain.Session{}, false)

	var errs error
	if err := c.secrets.Delete(ctx, c.accessKey); err != nil {
		errs = errors.Join(errs, fmt.Errorf("delete access token: %w", err))
	}
	if err := c.secrets.Delete(ctx, c.refreshKey); err != nil {
		errs = errors.Join(errs, fmt.Errorf("delete refresh token: %w", err))
	}
	if errs != nil {
		return fmt.Errorf("clear session: %w", errs)
	}

	return nil
}

// Subscribe registers fn for logged-in/logged-out transitions. The returned
// function removes the subscription.
func (c *CredentialStore) Subscribe(fn func(domain.AuthState)) func() {
	c.mu.Lock()
	handle := c.nextHandle
	c.nextHandle++
	c.listeners[handle] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, handle)
		c.mu.Unlock()
	}
}

func (c *CredentialStore) update(session domain.Session, present bool) {
	c.mu.Lock()
	changed := c.present != present
	c.session = session
	c.present = present
	c.version++
	var listeners []func(domain.AuthState)
	if changed {
		listeners = make([]func(domain.AuthState), 0, len(c.listeners))
		for _, fn := range c.listeners {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	if !changed {
		return
	}

	state := domain.AuthStateLoggedOut
	if present {
		state = domain.AuthStateLoggedIn
	}
	c.logger.Info("auth state changed", "state", state)
	for _, fn := range listeners {
		fn(state)
	}
}
