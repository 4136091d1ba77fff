package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/cosmo-uplink/pkg/util"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	LLM        LLMConfig        `yaml:"llm"`
	Report     ReportConfig     `yaml:"report"`
	MissionLog MissionLogConfig `yaml:"missionLog"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLM providers understood by the wiring layer.
const (
	ProviderChatGPT = "chatgpt"
	ProviderOpenAI  = "openai"
	ProviderOffline = "offline"
)

// LLMConfig contains the generative-text service settings.
type LLMConfig struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// ReportConfig controls mission report generation.
type ReportConfig struct {
	SystemPrompt string          `yaml:"systemPrompt"`
	Defaults     TelemetryConfig `yaml:"defaults"`
}

// TelemetryConfig holds the simulated dashboard readings.
type TelemetryConfig struct {
	Zone         string   `yaml:"zone"`
	Wind         float64  `yaml:"wind"`
	Temperature  float64  `yaml:"temperature"`
	Radiation    float64  `yaml:"radiation"`
	Purity       float64  `yaml:"purity"`
	SolarFlares  float64  `yaml:"solarFlares"`
	SolarClass   string   `yaml:"solarClass"`
	Minerals     []string `yaml:"minerals"`
	DensityMin   float64  `yaml:"densityMin"`
	DensityNow   float64  `yaml:"densityNow"`
	DensityMax   float64  `yaml:"densityMax"`
	MineralRatio float64  `yaml:"mineralRatio"`
}

// Mission log backends.
const (
	LogBackendMemory   = "memory"
	LogBackendSQLite   = "sqlite"
	LogBackendPostgres = "postgres"
	LogBackendValkey   = "valkey"
)

// MissionLogConfig selects where saved transmissions are kept.
type MissionLogConfig struct {
	Backend     string         `yaml:"backend"`
	SQLitePath  string         `yaml:"sqlitePath"`
	Postgres    PostgresConfig `yaml:"postgres"`
	Valkey      ValkeyConfig   `yaml:"valkey"`
	RecentLimit int            `yaml:"recentLimit"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the valkey log store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// ArchiveConfig points at the S3-compatible bucket receiving saved transmissions.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	// API_KEY is the variable the dashboard build has always read.
	if v := util.FirstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("API_KEY")); v != "" {
		cfg.LLM.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("REPORT_SYSTEM_PROMPT"); v != "" {
		cfg.Report.SystemPrompt = v
	}
	if v := os.Getenv("REPORT_ZONE"); v != "" {
		cfg.Report.Defaults.Zone = v
	}
	if v := os.Getenv("REPORT_MINERALS"); v != "" {
		cfg.Report.Defaults.Minerals = splitCSV(v)
	}
	if v := os.Getenv("MISSION_LOG_BACKEND"); v != "" {
		cfg.MissionLog.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("MISSION_LOG_SQLITE_PATH"); v != "" {
		cfg.MissionLog.SQLitePath = v
	}
	if v := os.Getenv("MISSION_LOG_POSTGRES_DSN"); v != "" {
		cfg.MissionLog.Postgres.DSN = v
	}
	if v := os.Getenv("MISSION_LOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.MissionLog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("MISSION_LOG_VALKEY_ADDR"); v != "" {
		cfg.MissionLog.Valkey.Addr = v
	}
	if v := os.Getenv("MISSION_LOG_RECENT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.MissionLog.RecentLimit = parsed
		}
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = parseBool(v)
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderChatGPT,
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:       "gemini-2.5-flash",
			Temperature: 0.4,
		},
		Report: ReportConfig{
			Defaults: TelemetryConfig{
				Zone:         "TERRA PRIME / SECTOR 7",
				Wind:         12,
				Temperature:  24,
				Radiation:    0.01,
				Purity:       78,
				SolarFlares:  56,
				SolarClass:   "CME - Class M",
				Minerals:     []string{"Nitrogen", "Oxygen", "Water"},
				DensityMin:   1.2,
				DensityNow:   3.4,
				DensityMax:   7.9,
				MineralRatio: 78,
			},
		},
		MissionLog: MissionLogConfig{
			Backend:     LogBackendMemory,
			SQLitePath:  "data/mission-log.db",
			Postgres:    PostgresConfig{MaxConns: 4},
			Valkey:      ValkeyConfig{Prefix: "missionlog"},
			RecentLimit: 20,
		},
		Archive: ArchiveConfig{
			Bucket: "transmissions",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderChatGPT, ProviderOpenAI, ProviderOffline:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.RequestTimeout < 0 {
		return errors.New("llm.requestTimeout cannot be negative")
	}
	if strings.TrimSpace(c.Report.Defaults.Zone) == "" {
		return errors.New("report.defaults.zone cannot be empty")
	}
	switch c.MissionLog.Backend {
	case LogBackendMemory:
	case LogBackendSQLite:
		if strings.TrimSpace(c.MissionLog.SQLitePath) == "" {
			return errors.New("missionLog.sqlitePath cannot be empty for the sqlite backend")
		}
	case LogBackendPostgres:
		if strings.TrimSpace(c.MissionLog.Postgres.DSN) == "" {
			return errors.New("missionLog.postgres.dsn cannot be empty for the postgres backend")
		}
	case LogBackendValkey:
		if strings.TrimSpace(c.MissionLog.Valkey.Addr) == "" {
			return errors.New("missionLog.valkey.addr cannot be empty for the valkey backend")
		}
	default:
		return fmt.Errorf("missionLog.backend %q is not supported", c.MissionLog.Backend)
	}
	if c.MissionLog.RecentLimit <= 0 {
		return errors.New("missionLog.recentLimit must be positive")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when the archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when the archive is enabled")
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitCSV(v string) []string {
	return util.CleanList(strings.Split(v, ","))
}
