package projectconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Paths.Uploads", "uploads/", cfg.Paths.Uploads)
	assertEqual(t, "Paths.Results", "results/", cfg.Paths.Results)
	assertEqual(t, "Media.FFmpeg", "ffmpeg", cfg.Media.FFmpeg)

	assertEqual(t, "Transcriber.Backend", "google", cfg.Transcriber.Backend)
	assertEqual(t, "Transcriber.Language", "en-US", cfg.Transcriber.Language)
	assertEqual(t, "Transcriber.Model", "", cfg.Transcriber.Model)
	assertEqual(t, "Transcriber.APIKeyEnv", "OPENAI_API_KEY", cfg.Transcriber.APIKeyEnv)

	assertBoolPtr(t, "Translator.Enabled", true, cfg.Translator.Enabled)
	assertEqual(t, "Translator.Endpoint", "", cfg.Translator.Endpoint)
	assertEqual(t, "Rubric.Path", "", cfg.Rubric.Path)

	assertEqual(t, "Server.Host", "127.0.0.1", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 5000, cfg.Server.Port)
	assertEqualInt(t, "Server.MaxUploadMB", 64, cfg.Server.MaxUploadMB)

	assertEqual(t, "Publish.Target", "none", cfg.Publish.Target)
	assertEqual(t, "Publish.Container", "reports", cfg.Publish.Container)

	assertEqualInt(t, "Timeout", 300, cfg.Timeout)
	if cfg.TimeoutDuration() != 5*time.Minute {
		t.Errorf("TimeoutDuration() = %v, want 5m", cfg.TimeoutDuration())
	}
	if cfg.Server.MaxUploadBytes() != 64<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.Server.MaxUploadBytes(), 64<<20)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
paths:
  uploads: "in/"
  results: "out/"
media:
  ffmpeg: /opt/ffmpeg/bin/ffmpeg
transcriber:
  backend: openai
  language: af-ZA
  model: whisper-1
  credentials_file: creds.json
  api_key_env: MY_KEY
  endpoint: http://localhost:9000
translator:
  enabled: false
  endpoint: http://localhost:9001
rubric:
  path: rubric.yaml
server:
  host: 0.0.0.0
  port: 8080
  max_upload_mb: 10
publish:
  target: azure
  account_url: https://acct.blob.core.windows.net
  container: qa
timeout: 60
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Uploads", "in/", cfg.Paths.Uploads)
	assertEqual(t, "Paths.Results", "out/", cfg.Paths.Results)
	assertEqual(t, "Media.FFmpeg", "/opt/ffmpeg/bin/ffmpeg", cfg.Media.FFmpeg)
	assertEqual(t, "Transcriber.Backend", "openai", cfg.Transcriber.Backend)
	assertEqual(t, "Transcriber.Language", "af-ZA", cfg.Transcriber.Language)
	assertEqual(t, "Transcriber.Model", "whisper-1", cfg.Transcriber.Model)
	assertEqual(t, "Transcriber.CredentialsFile", "creds.json", cfg.Transcriber.CredentialsFile)
	assertEqual(t, "Transcriber.APIKeyEnv", "MY_KEY", cfg.Transcriber.APIKeyEnv)
	assertEqual(t, "Transcriber.Endpoint", "http://localhost:9000", cfg.Transcriber.Endpoint)
	assertBoolPtr(t, "Translator.Enabled", false, cfg.Translator.Enabled)
	assertEqual(t, "Translator.Endpoint", "http://localhost:9001", cfg.Translator.Endpoint)
	assertEqual(t, "Rubric.Path", "rubric.yaml", cfg.Rubric.Path)
	assertEqual(t, "Server.Host", "0.0.0.0", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 8080, cfg.Server.Port)
	assertEqualInt(t, "Server.MaxUploadMB", 10, cfg.Server.MaxUploadMB)
	assertEqual(t, "Publish.Target", "azure", cfg.Publish.Target)
	assertEqual(t, "Publish.AccountURL", "https://acct.blob.core.windows.net", cfg.Publish.AccountURL)
	assertEqual(t, "Publish.Container", "qa", cfg.Publish.Container)
	assertEqualInt(t, "Timeout", 60, cfg.Timeout)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
transcriber:
  backend: static
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Transcriber.Backend", "static", cfg.Transcriber.Backend)
	// Everything else keeps its default.
	assertEqual(t, "Transcriber.Language", "en-US", cfg.Transcriber.Language)
	assertEqual(t, "Paths.Uploads", "uploads/", cfg.Paths.Uploads)
	assertBoolPtr(t, "Translator.Enabled", true, cfg.Translator.Enabled)
	assertEqualInt(t, "Server.Port", 5000, cfg.Server.Port)
	assertEqualInt(t, "Timeout", 300, cfg.Timeout)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	if cfg.Dir == "" || !filepath.IsAbs(cfg.Dir) {
		t.Errorf("Dir = %q, want the absolute start directory", cfg.Dir)
	}
	assertEqual(t, "Transcriber.Backend", defaults.Transcriber.Backend, cfg.Transcriber.Backend)
	assertEqualInt(t, "Server.Port", defaults.Server.Port, cfg.Server.Port)
	assertEqualInt(t, "Timeout", defaults.Timeout, cfg.Timeout)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "server: [not: valid")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing .callqa.yaml") {
		t.Errorf("error = %q, want parsing context", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"unknown target": "publish:\n  target: ftp\n",
		"local no dir":   "publish:\n  target: local\n",
		"azure no url":   "publish:\n  target: azure\n",
		"bad port":       "server:\n  port: 70000\n",
		"negative":       "timeout: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, content)
			if _, err := Load(dir); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "transcriber:\n  backend: found-it\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Transcriber.Backend", "found-it", cfg.Transcriber.Backend)
	assertEqual(t, "Dir", root, cfg.Dir)
}

func TestLoad_StopsAfterMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "transcriber:\n  backend: too-far\n")

	parts := []string{root}
	for i := 0; i < maxSearchDepth; i++ {
		parts = append(parts, "d")
	}
	nested := filepath.Join(parts...)
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Transcriber.Backend", DefaultBackend, cfg.Transcriber.Backend)
}

func TestTranscriberAPIKey(t *testing.T) {
	t.Setenv("CALLQA_TEST_KEY", "sk-test")

	c := TranscriberConfig{APIKeyEnv: "CALLQA_TEST_KEY"}
	assertEqual(t, "APIKey", "sk-test", c.APIKey())

	c.APIKeyEnv = ""
	assertEqual(t, "APIKey", "", c.APIKey())
}

func TestTranslatorIsEnabled(t *testing.T) {
	if !(TranslatorConfig{}).IsEnabled() {
		t.Error("nil Enabled should mean enabled")
	}
	if (TranslatorConfig{Enabled: boolPtr(false)}).IsEnabled() {
		t.Error("explicit false should disable")
	}
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
