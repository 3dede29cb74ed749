package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Log    LogConfig    `mapstructure:"log"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Worker WorkerConfig `mapstructure:"worker"`
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "errdisplay.yaml", `
log:
  level: debug
lookup:
  source: file
  path: /etc/errdisplay/lookup.json
  named_prefixes: [learndash, stripe]
worker:
  input_topic: in
  show_icon: false
  shutdown_timeout: 3
`)

	cfg := &testConfig{}
	require.NoError(t, LoadConfig(cfg, LoadOptions{ConfigFile: path}))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Lookup.Source)
	assert.Equal(t, []string{"learndash", "stripe"}, cfg.Lookup.NamedPrefixes)
	assert.Equal(t, "in", cfg.Worker.InputTopic)
	require.NotNil(t, cfg.Worker.ShowIcon)
	assert.False(t, *cfg.Worker.ShowIcon)
	assert.Equal(t, 3*time.Second, cfg.Worker.ShutdownTimeout.Duration())
}

func TestLoadConfig_EnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config_staging.yaml", "log:\n  level: warn\n")
	t.Setenv("APP_ENV", "staging")
	t.Setenv("ERRDISPLAY_LOG_LEVEL", "error")

	cfg := &testConfig{}
	require.NoError(t, LoadConfig(cfg, LoadOptions{ConfigPath: dir, EnvPrefix: "ERRDISPLAY"}))
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &testConfig{}

	require.Error(t, LoadConfig(cfg, LoadOptions{ConfigPath: dir}))
	require.NoError(t, LoadConfig(cfg, LoadOptions{ConfigPath: dir, AllowNoConfig: true}))
}

func TestApplyDefaults(t *testing.T) {
	var lookup LookupConfig
	lookup.ApplyDefaults()
	assert.Equal(t, "embedded", lookup.Source)
	assert.Equal(t, []string{"learndash"}, lookup.NamedPrefixes)

	lookup = LookupConfig{RedisKey: "k"}
	lookup.ApplyDefaults()
	assert.Equal(t, "redis", lookup.Source)

	lookup = LookupConfig{Source: "redis"}
	lookup.ApplyDefaults()
	assert.Equal(t, "errdisplay:lookup", lookup.RedisKey)

	lookup = LookupConfig{Path: "x.json"}
	lookup.ApplyDefaults()
	assert.Equal(t, "file", lookup.Source)

	var worker WorkerConfig
	worker.ApplyDefaults()
	require.NotNil(t, worker.ShowIcon)
	assert.True(t, *worker.ShowIcon)
	require.NotNil(t, worker.Enabled)
	assert.True(t, *worker.Enabled)
	assert.Equal(t, "errdisplay.events", worker.InputTopic)
	assert.Equal(t, 10*time.Second, worker.ShutdownTimeout.Duration())

	var log LogConfig
	log.ApplyDefaults()
	assert.Equal(t, "json", log.Format)
	assert.Equal(t, "info", log.Level)

	var tracing TracingConfig
	tracing.ApplyDefaults()
	assert.Equal(t, "disabled", tracing.Exporter)
	assert.Equal(t, 1.0, tracing.SampleRatio)

	var metrics MetricsConfig
	metrics.ApplyDefaults()
	assert.Equal(t, "/metrics", metrics.Path)
}

func TestSecrets(t *testing.T) {
	dir := t.TempDir()
	secretFile := writeFile(t, dir, "redis-password", "s3cret\n")
	t.Setenv("REDIS_PASSWORD_FILE", secretFile)
	t.Setenv("KAFKA_PASSWORD", "from-env")

	redisPassword := ""
	kafkaPassword := ""
	keep := "configured"
	require.NoError(t, ApplySecrets([]SecretDefinition{
		{Name: "REDIS_PASSWORD", Target: &redisPassword},
		{Name: "KAFKA_PASSWORD", Target: &kafkaPassword},
		{Name: "UNSET_SECRET", Target: &keep},
	}))
	assert.Equal(t, "s3cret", redisPassword)
	assert.Equal(t, "from-env", kafkaPassword)
	assert.Equal(t, "configured", keep)

	err := ApplySecrets([]SecretDefinition{{Name: "MISSING_SECRET", Required: true}})
	var notFound *SecretNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "MISSING_SECRET", notFound.Name)
}

func TestGetNodeID(t *testing.T) {
	t.Setenv("HOSTNAME", "host-1")
	assert.Equal(t, "host-1", GetNodeID("NODE_ID_UNSET"))
	t.Setenv("NODE_ID", "node-7")
	assert.Equal(t, "node-7", GetNodeID("NODE_ID"))
}
