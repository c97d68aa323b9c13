// Package projectconfig provides the ProjectConfig struct and loader for
// .callqa.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file searched for by Load.
const FileName = ".callqa.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultUploadsDir = "uploads/"
	DefaultResultsDir = "results/"

	DefaultFFmpeg = "ffmpeg"

	DefaultBackend   = "google"
	DefaultLanguage  = "en-US"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"

	DefaultServerHost  = "127.0.0.1"
	DefaultServerPort  = 5000
	DefaultMaxUploadMB = 64

	DefaultPublishTarget = PublishNone
	DefaultContainer     = "reports"

	DefaultTimeout = 300
)

// Publish targets.
const (
	PublishNone  = "none"
	PublishLocal = "local"
	PublishAzure = "azure"
)

// maxSearchDepth bounds the walk up from the start directory.
const maxSearchDepth = 10

// PathsConfig holds directory paths for uploads and archived results.
type PathsConfig struct {
	Uploads string `yaml:"uploads,omitempty"`
	Results string `yaml:"results,omitempty"`
}

// MediaConfig holds audio conversion settings.
type MediaConfig struct {
	FFmpeg string `yaml:"ffmpeg,omitempty"`
}

// TranscriberConfig selects and configures the speech-to-text backend.
type TranscriberConfig struct {
	Backend         string `yaml:"backend,omitempty"`
	Language        string `yaml:"language,omitempty"`
	Model           string `yaml:"model,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
}

// APIKey reads the key from the configured environment variable.
func (c TranscriberConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// TranslatorConfig holds language detection and translation settings.
type TranslatorConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// IsEnabled reports whether sentences are detected and translated.
func (c TranslatorConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// RubricConfig points at a custom rubric file. Empty means the built-in one.
type RubricConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	MaxUploadMB int    `yaml:"max_upload_mb,omitempty"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// PublishConfig controls where finished reports are copied.
type PublishConfig struct {
	Target     string `yaml:"target,omitempty"`
	Dir        string `yaml:"dir,omitempty"`
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .callqa.yaml.
type ProjectConfig struct {
	Paths       PathsConfig       `yaml:"paths,omitempty"`
	Media       MediaConfig       `yaml:"media,omitempty"`
	Transcriber TranscriberConfig `yaml:"transcriber,omitempty"`
	Translator  TranslatorConfig  `yaml:"translator,omitempty"`
	Rubric      RubricConfig      `yaml:"rubric,omitempty"`
	Server      ServerConfig      `yaml:"server,omitempty"`
	Publish     PublishConfig     `yaml:"publish,omitempty"`
	// Timeout bounds one CLI analysis, in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// Dir is where the config file was found, or the start directory when
	// there is none. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ProjectConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Uploads: DefaultUploadsDir,
			Results: DefaultResultsDir,
		},
		Media: MediaConfig{
			FFmpeg: DefaultFFmpeg,
		},
		Transcriber: TranscriberConfig{
			Backend:   DefaultBackend,
			Language:  DefaultLanguage,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Translator: TranslatorConfig{
			Enabled: boolPtr(true),
		},
		Server: ServerConfig{
			Host:        DefaultServerHost,
			Port:        DefaultServerPort,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Publish: PublishConfig{
			Target:    DefaultPublishTarget,
			Container: DefaultContainer,
		},
		Timeout: DefaultTimeout,
	}
}

// Load finds .callqa.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Dir, _ = filepath.Abs(startDir)
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	cfg.Dir = filepath.Dir(path)

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) validate() error {
	switch c.Publish.Target {
	case PublishNone:
	case PublishLocal:
		if c.Publish.Dir == "" {
			return errors.New("publish.dir is required for the local target")
		}
	case PublishAzure:
		if c.Publish.AccountURL == "" {
			return errors.New("publish.account_url is required for the azure target")
		}
	default:
		return fmt.Errorf("unknown publish target %q", c.Publish.Target)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	return nil
}

// findConfigFile walks up from dir looking for .callqa.yaml and returns its
// contents and path. Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, string, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	setString(&dst.Paths.Uploads, src.Paths.Uploads)
	setString(&dst.Paths.Results, src.Paths.Results)

	setString(&dst.Media.FFmpeg, src.Media.FFmpeg)

	// Transcriber
	setString(&dst.Transcriber.Backend, src.Transcriber.Backend)
	setString(&dst.Transcriber.Language, src.Transcriber.Language)
	setString(&dst.Transcriber.Model, src.Transcriber.Model)
	setString(&dst.Transcriber.CredentialsFile, src.Transcriber.CredentialsFile)
	setString(&dst.Transcriber.APIKeyEnv, src.Transcriber.APIKeyEnv)
	setString(&dst.Transcriber.Endpoint, src.Transcriber.Endpoint)

	// Translator
	if src.Translator.Enabled != nil {
		dst.Translator.Enabled = src.Translator.Enabled
	}
	setString(&dst.Translator.Endpoint, src.Translator.Endpoint)

	setString(&dst.Rubric.Path, src.Rubric.Path)

	// Server
	setString(&dst.Server.Host, src.Server.Host)
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.MaxUploadMB != 0 {
		dst.Server.MaxUploadMB = src.Server.MaxUploadMB
	}

	// Publish
	setString(&dst.Publish.Target, src.Publish.Target)
	setString(&dst.Publish.Dir, src.Publish.Dir)
	setString(&dst.Publish.AccountURL, src.Publish.AccountURL)
	setString(&dst.Publish.Container, src.Publish.Container)

	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func boolPtr(b bool) *bool {
	return &b
}
