package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-dashboard/internal/auth"
	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/internal/storage"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/samvad-hq/samvad-dashboard/pkg/publishers"
	"github.com/samvad-hq/samvad-dashboard/pkg/resources"
)

// New builds a dashboard from configuration: the service client, the token
// source with its cache, and the event publishers. Callers must Close it.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	services := httpclient.NewServiceDescriptor(cfg.Services())
	client := httpclient.NewServiceClient(services, httpclient.Options{
		Timeout: cfg.APITimeout,
		Logger:  log,
	})
	log.InfoObj("service client configured", "services", map[string]any{
		"notes":      services.ResolveBase(httpclient.ServiceNotes),
		"reports":    services.ResolveBase(httpclient.ServiceReports),
		"tasks":      services.ResolveBase(httpclient.ServiceTasks),
		"timeout_ms": cfg.APITimeout.Milliseconds(),
	})

	cacheType := cfg.TokenCacheType
	if !cfg.UsesAuth0() {
		cacheType = "none"
	}
	store, err := storage.NewStore(cacheType, cfg.TokenCachePath, storage.Options{})
	if err != nil {
		return nil, fmt.Errorf("init token cache: %w", err)
	}
	log.InfoObj("token cache initialized", "token_cache", map[string]any{
		"type":  cacheType,
		"path":  cfg.TokenCachePath,
		"auth0": cfg.UsesAuth0(),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	d := NewDashboard(resources.NewSet(client), auth.FromConfig(cfg, store, log), fanout, log)
	d.closer = func() error {
		return errors.Join(fanout.Close(), store.Close())
	}
	return d, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs, log), nil
}
