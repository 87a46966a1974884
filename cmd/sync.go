package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/config"
	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/joblog"
	"github.com/courtside-data/atp-cli/internal/render"
	"github.com/courtside-data/atp-cli/internal/scrape"
	"github.com/courtside-data/atp-cli/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync datasets from the tour site",
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// appEnv bundles the collaborators a sync or serve command needs.
type appEnv struct {
	syncer *syncer.Syncer
	store  dataset.Store
	log    *joblog.Log
}

func (e *appEnv) Close() {
	if e.log != nil {
		_ = e.log.Close()
	}
}

func newStore(cfg *config.Config) (dataset.Store, error) {
	switch cfg.Store.Backend {
	case "local":
		return dataset.NewLocalStore(cfg.Store.Dir)
	case "s3":
		return dataset.NewObjectStore(dataset.ObjectConfig{
			Endpoint:  cfg.Store.Endpoint,
			AccessKey: cfg.Store.AccessKey,
			SecretKey: cfg.Store.SecretKey,
			Bucket:    cfg.Store.Bucket,
			Region:    cfg.Store.Region,
			UseSSL:    cfg.Store.UseSSL,
			Prefix:    cfg.Store.Prefix,
		})
	default:
		return nil, eris.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// initEnv validates the config for the given mode and builds the
// syncer with its store, fetch client, optional renderer, and job log.
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	client := scrape.NewClient(scrape.Options{
		BaseURL:           cfg.Scrape.BaseURL,
		UserAgent:         cfg.Scrape.UserAgent,
		Timeout:           time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		MaxAttempts:       cfg.Scrape.MaxAttempts,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
	})

	var renderer render.Renderer
	if cfg.Render.BaseURL != "" {
		renderer = render.NewServiceClient(render.ServiceOptions{
			BaseURL:     cfg.Render.BaseURL,
			Token:       cfg.Render.Token,
			Timeout:     time.Duration(cfg.Render.TimeoutSecs) * time.Second,
			MaxAttempts: cfg.Render.MaxAttempts,
			WaitUntil:   cfg.Render.WaitUntil,
		})
	}

	log, err := joblog.Open(cfg.JobLog.Path)
	if err != nil {
		return nil, err
	}
	if err := log.Migrate(ctx); err != nil {
		log.Close()
		return nil, err
	}

	return &appEnv{
		syncer: syncer.New(store, client, renderer),
		store:  store,
		log:    log,
	}, nil
}

// runLogged wraps one sync flow with its audit log entry.
func runLogged(ctx context.Context, log *joblog.Log, dataset string, fn func(context.Context) (int, error)) (int, error) {
	id, err := log.Start(ctx, dataset)
	if err != nil {
		return 0, err
	}

	n, err := fn(ctx)
	if err != nil {
		if logErr := log.Fail(ctx, id, err.Error()); logErr != nil {
			zap.L().Warn("record sync failure", zap.Error(logErr))
		}
		return 0, err
	}

	if err := log.Complete(ctx, id, int64(n)); err != nil {
		zap.L().Warn("record sync completion", zap.Error(err))
	}
	return n, nil
}
