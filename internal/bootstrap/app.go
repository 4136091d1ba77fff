package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle and the mission log backend.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	store  missionlog.Store
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, store missionlog.Store) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, store: store}
}

// Run starts the HTTP server and blocks until ctx is done or the server fails.
// The mission log backend is closed on the way out.
func (a *App) Run(ctx context.Context) error {
	defer a.closeStore()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("uplink server starting",
			"address", a.cfg.HTTP.Address,
			"llm_provider", a.cfg.LLM.Provider,
			"model", a.cfg.LLM.Model,
			"mission_log", a.cfg.MissionLog.Backend,
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) closeStore() {
	closer, ok := a.store.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		a.logger.Warn("mission log close failed", "error", err)
	}
}
