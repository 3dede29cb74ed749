package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
	"github.com/Goden-Gun/errdisplay/pkg/config"
	"github.com/Goden-Gun/errdisplay/pkg/render"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	cmd := newRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd("test")
	for _, name := range []string{"classify", "codes", "serve"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
}

func TestClassifyCmd_JSON(t *testing.T) {
	out, err := run(t, "", "classify", `{"code":"SITE_ALREADY_EXISTS"}`)
	require.NoError(t, err)

	var view render.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, render.BoxWarning, view.Box)
	assert.Equal(t, classify.IconWarning, view.Icon)
	assert.Equal(t, "SITE_ALREADY_EXISTS", view.Code)
}

func TestClassifyCmd_StdinPlain(t *testing.T) {
	out, err := run(t, `{"error":{"code":"INVALID_PARAMETERS","data":{"params":{"url":1}}}}`, "classify", "--plain", "-")
	require.NoError(t, err)
	assert.Equal(t, "The following fields are invalid: url.\n", out)
}

func TestClassifyCmd_NoIcon(t *testing.T) {
	out, err := run(t, "", "classify", "--no-icon", "--class-name", "inline", `{"unexpected":true}`)
	require.NoError(t, err)

	var view render.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Empty(t, view.Icon)
	assert.False(t, view.IconPadding)
	assert.Equal(t, "inline", view.ClassName)
	assert.Equal(t, "GENERAL_SUPPORT_ERROR", view.Code)
}

func TestClassifyCmd_Null(t *testing.T) {
	out, err := run(t, "", "classify", "null")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestClassifyCmd_Errors(t *testing.T) {
	_, err := run(t, "", "classify")
	require.Error(t, err)

	_, err = run(t, "", "classify", "{")
	require.Error(t, err)
}

func TestClassifyCmd_LookupFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
GENERAL_SUPPORT_ERROR:
  message: Custom fallback.
  type: warning
`), 0o600))

	out, err := run(t, "", "--lookup", path, "classify", "--plain", `{"code":"ANYTHING"}`)
	require.NoError(t, err)
	assert.Equal(t, "Custom fallback.\n", out)
}

func TestCodesCmd(t *testing.T) {
	out, err := run(t, "", "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "GENERAL_SUPPORT_ERROR")

	out, err = run(t, "", "codes", "--json")
	require.NoError(t, err)
	var entries map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, "error", entries["GENERAL_SUPPORT_ERROR"]["type"])
}

func TestServeCmd_RequiresBrokers(t *testing.T) {
	_, err := run(t, "", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestServeCmd_WorkerDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errdisplay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kafka:
  brokers: [localhost:9092]
worker:
  enabled: false
`), 0o600))

	_, err := run(t, "", "--config", path, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker.enabled")
}

func TestLoggerOptions_ContainerHookOnServe(t *testing.T) {
	cfg := &serviceConfig{App: config.AppConfig{Name: "errdisplay"}}
	root := newRootCmd("test")
	for name, want := range map[string]bool{"serve": true, "classify": false, "codes": false} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		opts := loggerOptions(sub, cfg)
		assert.Equal(t, want, opts.AddContainerHook, name)
		assert.Equal(t, "errdisplay", opts.ServiceName)
	}
}

func TestLoadServiceConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errdisplay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: recoder
kafka:
  brokers: [localhost:9092]
lookup:
  support_href: https://example.test/support
worker:
  output_topic: views
`), 0o600))
	t.Setenv("KAFKA_PASSWORD", "pw")

	cfg, err := loadServiceConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "recoder", cfg.Kafka.ClientID)
	assert.Equal(t, "pw", cfg.Kafka.Password)
	assert.Equal(t, "views", cfg.Worker.OutputTopic)
	assert.Equal(t, "errdisplay.events", cfg.Worker.InputTopic)
	assert.Equal(t, "embedded", cfg.Lookup.Source)

	a := &app{cfg: cfg}
	assert.Equal(t, "https://example.test/support", a.classifier().SupportLink.Href)
	assert.Equal(t, []string{"learndash"}, a.decoder().NamedPrefixes)
}
