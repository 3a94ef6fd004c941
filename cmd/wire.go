package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/feedsync/internal/adapters/api"
	"github.com/bnema/feedsync/internal/adapters/metrics/prom"
	chainstore "github.com/bnema/feedsync/internal/adapters/secrets/chain"
	filestore "github.com/bnema/feedsync/internal/adapters/secrets/file"
	passstore "github.com/bnema/feedsync/internal/adapters/secrets/pass"
	sqlitestore "github.com/bnema/feedsync/internal/adapters/secrets/sqlite"
	tomlstore "github.com/bnema/feedsync/internal/adapters/secrets/toml"
	jwtinspector "github.com/bnema/feedsync/internal/adapters/tokens/jwt"
	yamlcatalog "github.com/bnema/feedsync/internal/adapters/workflows/yaml"
	"github.com/bnema/feedsync/internal/application"
	"github.com/bnema/feedsync/internal/config"
	"github.com/bnema/feedsync/internal/logging"
	"github.com/bnema/feedsync/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

type app struct {
	config    config.Config
	logger    *slog.Logger
	options   []application.Option
	store     *application.CredentialStore
	sessions  *application.SessionService
	feed      ports.FeedSource
	likes     ports.LikeService
	workflows *application.WorkflowService
	inspector ports.TokenInspector
	registry  *prometheus.Registry
	closers   []io.Closer
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	recorder, err := prom.NewRecorder(registry)
	if err != nil {
		return nil, fmt.Errorf("wire metrics: %w", err)
	}

	options := []application.Option{
		application.WithLogger(logger),
		application.WithMetrics(recorder),
		application.WithClock(ports.SystemClock{}),
	}

	secrets, closers, err := wireSecretStore(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	store := application.NewCredentialStore(secrets, application.DefaultNamespace, cfg.Session.Profile, options...)
	if err := store.Load(context.Background()); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("load session: %w", err)
	}

	transport := api.Transport{
		BaseURL:        cfg.API.BaseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.API.Timeout,
	}
	gateway := api.Gateway{
		Transport: transport,
		Paths:     api.AuthPaths{LoginPath: cfg.API.LoginPath, RefreshPath: cfg.API.RefreshPath},
	}
	inspector := jwtinspector.NewInspector()

	coordinator := application.NewRefreshCoordinator(store, gateway, cfg.Session.RefreshTimeout, options...)
	executor := application.NewExecutor(transport, store, coordinator, options...).
		WithProactiveRefresh(inspector, cfg.Session.RefreshSkew)

	return &app{
		config:    cfg,
		logger:    logger,
		options:   options,
		store:     store,
		sessions:  application.NewSessionService(store, gateway, options...),
		feed:      api.FeedSource{Executor: executor},
		likes:     api.LikeService{Executor: executor},
		workflows: application.NewWorkflowService(api.WorkflowSource{Executor: executor}, yamlcatalog.NewCatalog(cfg.Workflows.Path)),
		inspector: inspector,
		registry:  registry,
		closers:   closers,
	}, nil
}

func wireSecretStore(cfg config.SessionConfig) (ports.SecretStore, []io.Closer, error) {
	switch cfg.Backend {
	case config.BackendTOML:
		store, err := tomlstore.NewStore(cfg.Path, ports.SystemClock{})
		return store, nil, err
	case config.BackendFile:
		return filestore.NewStore(secretsDir(cfg.Path)), nil, nil
	case config.BackendPass:
		return passstore.NewStore(), nil, nil
	case config.BackendSQLite:
		store, err := sqlitestore.Open(withExt(cfg.Path, ".db"), ports.SystemClock{})
		if err != nil {
			return nil, nil, err
		}
		return store, []io.Closer{store}, nil
	case config.BackendChain:
		store, err := chainstore.NewStoreChecked(passstore.NewStore(), filestore.NewStore(secretsDir(cfg.Path)))
		return store, nil, err
	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}

// secretsDir places per-key files next to the configured session path.
func secretsDir(path string) string {
	return filepath.Join(filepath.Dir(path), "secrets")
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func (a *app) close() error {
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
