package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// AppConfig is flat so that every key maps 1:1 onto an env var and a
// TOML key of the same (lower-cased) name.
type AppConfig struct {
	Port     string `toml:"port"`
	DBPath   string `toml:"db_path"`
	StoreURL string `toml:"store_url"`

	LLMEndpoint string        `toml:"llm_endpoint"`
	LLMAPIKey   string        `toml:"llm_api_key"`
	LLMModel    string        `toml:"llm_model"`
	LLMTimeout  time.Duration `toml:"-"`

	UploadDir     string `toml:"upload_dir"`
	UploadBaseURL string `toml:"upload_base_url"`
	NATSURL       string `toml:"nats_url"`
	NATSBucket    string `toml:"nats_bucket"`

	EmbEndpoint      string   `toml:"emb_endpoint"`
	EmbAPIKey        string   `toml:"emb_api_key"`
	EmbModel         string   `toml:"emb_model"`
	KBAllowedDomains []string `toml:"kb_allowed_domains"`
	KBMaxBytes       int      `toml:"kb_max_bytes_per_page"`

	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	EnableAuth bool   `toml:"enable_auth"`

	// ServeStoreAPI mounts the unauthenticated /api document store routes.
	// Only enable it on a private network.
	ServeStoreAPI bool `toml:"serve_store_api"`
}

func Default() AppConfig {
	return AppConfig{
		Port:          "8080",
		DBPath:        "kisaan.db",
		LLMModel:      "gpt-4o-mini",
		LLMTimeout:    60 * time.Second,
		UploadDir:     "uploads",
		UploadBaseURL: "/uploads",
		NATSBucket:    "kisaan-uploads",
		KBMaxBytes:    1500000,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load layers defaults, the optional TOML file named by KISAAN_CONFIG,
// a .env file and the process environment, later layers winning.
func Load() (AppConfig, error) {
	// a missing .env is fine; real env vars may be set instead
	_ = godotenv.Load()
	return load(os.Getenv("KISAAN_CONFIG"), os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		var fileCfg struct {
			AppConfig
			LLMTimeout string `toml:"llm_timeout"`
		}
		fileCfg.AppConfig = cfg
		if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		cfg = fileCfg.AppConfig
		if fileCfg.LLMTimeout != "" {
			d, err := time.ParseDuration(fileCfg.LLMTimeout)
			if err != nil {
				return cfg, fmt.Errorf("config file %s: llm_timeout: %w", path, err)
			}
			cfg.LLMTimeout = d
		}
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DB_PATH", &cfg.DBPath)
	str("STORE_URL", &cfg.StoreURL)
	str("LLM_ENDPOINT", &cfg.LLMEndpoint)
	str("LLM_API_KEY", &cfg.LLMAPIKey)
	str("LLM_MODEL", &cfg.LLMModel)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("UPLOAD_BASE_URL", &cfg.UploadBaseURL)
	str("NATS_URL", &cfg.NATSURL)
	str("NATS_BUCKET", &cfg.NATSBucket)
	str("EMB_ENDPOINT", &cfg.EmbEndpoint)
	str("EMB_API_KEY", &cfg.EmbAPIKey)
	str("EMB_MODEL", &cfg.EmbModel)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if v, ok := lookup("LLM_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid LLM_TIMEOUT value: %w", err)
		}
		cfg.LLMTimeout = d
	}
	if v, ok := lookup("KB_MAX_BYTES_PER_PAGE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid KB_MAX_BYTES_PER_PAGE value %q", v)
		}
		cfg.KBMaxBytes = n
	}
	if v, ok := lookup("KB_ALLOWED_DOMAINS"); ok && v != "" {
		cfg.KBAllowedDomains = splitList(v)
	}
	for key, dst := range map[string]*bool{
		"ENABLE_AUTH":     &cfg.EnableAuth,
		"SERVE_STORE_API": &cfg.ServeStoreAPI,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s value: %w", key, err)
			}
			*dst = b
		}
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("invalid PORT value: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// LogValue keeps API keys out of the startup log.
func (c AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("db_path", c.DBPath),
		slog.String("store_url", c.StoreURL),
		slog.String("llm_endpoint", c.LLMEndpoint),
		slog.String("llm_api_key", redact(c.LLMAPIKey)),
		slog.String("llm_model", c.LLMModel),
		slog.Duration("llm_timeout", c.LLMTimeout),
		slog.String("upload_dir", c.UploadDir),
		slog.String("upload_base_url", c.UploadBaseURL),
		slog.String("nats_url", c.NATSURL),
		slog.String("nats_bucket", c.NATSBucket),
		slog.String("emb_endpoint", c.EmbEndpoint),
		slog.String("emb_api_key", redact(c.EmbAPIKey)),
		slog.String("emb_model", c.EmbModel),
		slog.Any("kb_allowed_domains", c.KBAllowedDomains),
		slog.Int("kb_max_bytes_per_page", c.KBMaxBytes),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.Bool("enable_auth", c.EnableAuth),
		slog.Bool("serve_store_api", c.ServeStoreAPI),
	)
}
