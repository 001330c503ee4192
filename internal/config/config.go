package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"holidaycal/internal/model"
)

// Fetch modes for announcement documents.
const (
	FetchHTTP     = "http"
	FetchChromium = "chromium"
)

// OutputConfig lists the artifacts written after every compilation.
// Empty paths disable the corresponding artifact.
type OutputConfig struct {
	// GoPath is the generated Go source file with the holiday/workday tables.
	GoPath string `yaml:"go_path" json:"go_path"`
	// GoPackage is the package clause of the generated Go source.
	GoPackage string `yaml:"go_package" json:"go_package"`
	// JSONDir receives one <year>.json file per calendar year.
	JSONDir string `yaml:"json_dir" json:"json_dir"`
	// ICSPath is an iCalendar file with one all-day event per entry.
	ICSPath string `yaml:"ics_path" json:"ics_path"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used to interpret dates given to the
	// API and to run the refresh schedule.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "0 3 * * *")
	// used for periodic recompilation.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir holds the HTTP cache of fetched announcements.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// FetchMode selects how announcements are downloaded:
	//   - "http" (default): plain GET with conditional caching
	//   - "chromium": headless browser, for pages rendered by scripts
	FetchMode string `yaml:"fetch_mode" json:"fetch_mode"`

	// StrictSource rejects announcement URLs that do not have the
	// publisher's usual shape. nil means true.
	StrictSource *bool `yaml:"strict_source,omitempty" json:"strict_source,omitempty"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Papers is the list of announcements, one per nominal year.
	Papers []model.Paper `yaml:"papers" json:"papers"`

	Output OutputConfig `yaml:"output" json:"output"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultPapers are the announcements known at release time.
func DefaultPapers() []model.Paper {
	return []model.Paper{
		{Year: 2019, URL: "http://www.gov.cn/zhengce/content/2018-12/06/content_5346276.htm"},
		{Year: 2020, URL: "http://www.gov.cn/zhengce/content/2019-11/21/content_5454164.htm"},
		{Year: 2021, URL: "http://www.gov.cn/zhengce/content/2020-11/25/content_5564127.htm"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	strict := true
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "Asia/Shanghai",
		RefreshCron:  "0 3 * * *",
		CacheDir:     "./var/paper-cache",
		FetchMode:    FetchHTTP,
		StrictSource: &strict,
		LogLevel:     "info",
		LogFormat:    "text",
		Papers:       DefaultPapers(),
		Output: OutputConfig{
			GoPath:    "holiday_workday.go",
			GoPackage: "util",
		},
	}
}

// Strict reports whether announcement URLs must have the publisher's shape.
func (c *Config) Strict() bool {
	return c.StrictSource == nil || *c.StrictSource
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Shanghai"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 3 * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/paper-cache"
	}
	switch c.FetchMode {
	case FetchHTTP, FetchChromium:
		// ok
	default:
		c.FetchMode = FetchHTTP
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Papers == nil {
		c.Papers = DefaultPapers()
	}
	sort.SliceStable(c.Papers, func(i, j int) bool {
		return c.Papers[i].Year < c.Papers[j].Year
	})
	if c.Output.GoPackage == "" {
		c.Output.GoPackage = "util"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically via
// a temp file + rename, with 0600 permissions on the result.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".holidaycal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Environment variables overriding the config file.
const (
	EnvListen            = "HOLIDAYCAL_LISTEN"
	EnvLogLevel          = "HOLIDAYCAL_LOG_LEVEL"
	EnvBasicAuthUsername = "HOLIDAYCAL_BASIC_AUTH_USERNAME"
	EnvBasicAuthPassword = "HOLIDAYCAL_BASIC_AUTH_PASSWORD"
)

// ApplyEnv overrides c with HOLIDAYCAL_* environment variables, loading a
// .env file from the working directory first if one exists. Variables
// already set in the environment win over the .env file.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}

	user, pass := os.Getenv(EnvBasicAuthUsername), os.Getenv(EnvBasicAuthPassword)
	if user != "" && pass != "" {
		c.BasicAuth = &BasicAuthConfig{Username: user, Password: pass}
	}
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
