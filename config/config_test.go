package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.EnableAuth)
	assert.False(t, cfg.ServeStoreAPI, "the store API stays off unless asked for")
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := load("", env(map[string]string{
		"PORT":                  "9090",
		"STORE_URL":             "http://store:8080/api",
		"LLM_TIMEOUT":           "5s",
		"KB_ALLOWED_DOMAINS":    " extension.org , ,agri.gov ",
		"KB_MAX_BYTES_PER_PAGE": "2048",
		"ENABLE_AUTH":           "true",
		"SERVE_STORE_API":       "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://store:8080/api", cfg.StoreURL)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"extension.org", "agri.gov"}, cfg.KBAllowedDomains)
	assert.Equal(t, 2048, cfg.KBMaxBytes)
	assert.True(t, cfg.EnableAuth)
	assert.True(t, cfg.ServeStoreAPI)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kisaan.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "7000"
db_path = "/data/kisaan.db"
llm_model = "file-model"
llm_timeout = "90s"
kb_allowed_domains = ["a.org", "b.org"]
serve_store_api = true
`), 0o644))

	cfg, err := load(path, env(map[string]string{"LLM_MODEL": "env-model"}))
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "/data/kisaan.db", cfg.DBPath)
	assert.Equal(t, "env-model", cfg.LLMModel)
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"a.org", "b.org"}, cfg.KBAllowedDomains)
	assert.True(t, cfg.ServeStoreAPI)
	assert.Equal(t, "uploads", cfg.UploadDir, "unset keys keep their default")
}

func TestLoad_Invalid(t *testing.T) {
	for key, val := range map[string]string{
		"PORT":                  "http",
		"LLM_TIMEOUT":           "soon",
		"KB_MAX_BYTES_PER_PAGE": "-1",
		"ENABLE_AUTH":           "maybe",
		"SERVE_STORE_API":       "sometimes",
	} {
		_, err := load("", env(map[string]string{key: val}))
		assert.Error(t, err, key)
	}

	_, err := load(filepath.Join(t.TempDir(), "missing.toml"), env(nil))
	assert.Error(t, err)
}

func TestLogValue_RedactsKeys(t *testing.T) {
	cfg := Default()
	cfg.LLMAPIKey = "sk-secret"
	cfg.EmbAPIKey = "emb-secret"

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("config", "cfg", cfg)

	out := buf.String()
	assert.NotContains(t, out, "sk-secret")
	assert.NotContains(t, out, "emb-secret")
	assert.Contains(t, out, "cfg.llm_api_key=***")
	assert.Contains(t, out, "cfg.port=8080")
}
