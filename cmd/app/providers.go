package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/internal/domain/telemetry"
	"github.com/yanqian/cosmo-uplink/internal/infra/archive"
	"github.com/yanqian/cosmo-uplink/internal/infra/config"
	"github.com/yanqian/cosmo-uplink/internal/infra/llm/chatgpt"
	"github.com/yanqian/cosmo-uplink/internal/infra/llm/offline"
	"github.com/yanqian/cosmo-uplink/internal/infra/llm/openaisdk"
	"github.com/yanqian/cosmo-uplink/internal/infra/logstore"
	"github.com/yanqian/cosmo-uplink/internal/infra/tokens"
)

func provideReportConfig(cfg *config.Config) missionreport.Config {
	return missionreport.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		SystemPrompt: cfg.Report.SystemPrompt,
	}
}

// provideChatClient picks the configured provider. A missing credential
// does not stop the service: every report then resolves to the
// communication error text.
func provideChatClient(cfg *config.Config, logger *slog.Logger) missionreport.ChatClient {
	switch cfg.LLM.Provider {
	case config.ProviderOffline:
		logger.Info("offline llm provider enabled")
		return offline.NewClient()
	case config.ProviderOpenAI:
		client, err := openaisdk.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
		if err != nil {
			logger.Error("openai sdk client unavailable", "error", err)
			return chatgpt.Unavailable{Reason: err.Error()}
		}
		return client
	default:
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
		if err != nil {
			logger.Error("chat client unavailable", "error", err)
			return chatgpt.Unavailable{Reason: err.Error()}
		}
		return client
	}
}

func provideTelemetryConfig(cfg *config.Config) telemetry.Config {
	d := cfg.Report.Defaults
	return telemetry.Config{
		Zone:         d.Zone,
		Wind:         d.Wind,
		Temperature:  d.Temperature,
		Radiation:    d.Radiation,
		Purity:       d.Purity,
		SolarFlares:  d.SolarFlares,
		SolarClass:   d.SolarClass,
		Minerals:     d.Minerals,
		DensityMin:   d.DensityMin,
		DensityNow:   d.DensityNow,
		DensityMax:   d.DensityMax,
		MineralRatio: d.MineralRatio,
	}
}

func provideMissionLogConfig(cfg *config.Config) missionlog.Config {
	return missionlog.Config{RecentLimit: cfg.MissionLog.RecentLimit}
}

func provideTokenCounter(logger *slog.Logger) missionlog.TokenCounter {
	counter := tokens.NewCounter("", logger)
	counter.Warm()
	return counter
}

// provideLogStore opens the configured backend, falling back to memory when
// it cannot be reached.
func provideLogStore(cfg *config.Config, logger *slog.Logger) missionlog.Store {
	fallback := logstore.NewMemoryStore()
	switch cfg.MissionLog.Backend {
	case config.LogBackendSQLite:
		store, err := logstore.OpenSQLite(cfg.MissionLog.SQLitePath)
		if err != nil {
			logger.Error("failed to open sqlite mission log, using memory store", "path", cfg.MissionLog.SQLitePath, "error", err)
			return fallback
		}
		logger.Info("sqlite mission log enabled", "path", cfg.MissionLog.SQLitePath)
		return store
	case config.LogBackendPostgres:
		pool, err := openPostgres(cfg.MissionLog.Postgres, logger)
		if err != nil {
			return fallback
		}
		store := logstore.NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("postgres schema setup failed, using memory store", "error", err)
			pool.Close()
			return fallback
		}
		logger.Info("postgres mission log enabled")
		return store
	case config.LogBackendValkey:
		client, err := openValkey(cfg.MissionLog.Valkey.Addr, logger)
		if err != nil {
			return fallback
		}
		logger.Info("valkey mission log enabled", "addr", cfg.MissionLog.Valkey.Addr)
		return logstore.NewValkeyStore(client, cfg.MissionLog.Valkey.Prefix)
	default:
		logger.Info("mission log kept in memory")
		return fallback
	}
}

// provideArchive returns the object-storage archive, or an in-memory one when
// archiving is disabled or the bucket client cannot be built.
func provideArchive(cfg *config.Config, logger *slog.Logger) missionlog.Archive {
	if !cfg.Archive.Enabled {
		return archive.NewMemoryArchive()
	}
	a, err := archive.NewMinioArchive(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.Region, logger)
	if err != nil {
		logger.Error("archive client unavailable, using memory archive", "error", err)
		return archive.NewMemoryArchive()
	}
	logger.Info("transmission archive enabled", "bucket", cfg.Archive.Bucket)
	return a
}

func openPostgres(cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		logger.Error("invalid postgres dsn, using memory store", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory store", "error", err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory store", "error", err)
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func openValkey(addr string, logger *slog.Logger) (valkey.Client, error) {
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		logger.Error("invalid valkey configuration, using memory store", "error", err)
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, using memory store", "error", err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, using memory store", "error", err)
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
