package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	IdentifierFullName = "full_name"
	IdentifierEmail    = "email"
)

// Environment variables that override the yaml file.
const (
	EnvBackendURL    = "SKILLVINE_BACKEND_URL"
	EnvPort          = "SKILLVINE_PORT"
	EnvLogLevel      = "SKILLVINE_LOG_LEVEL"
	EnvSecureCookies = "SKILLVINE_SECURE_COOKIES"
)

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Backend   Backend   `yaml:"backend"`
	Log       Log       `yaml:"log"`
	Signup    Signup    `yaml:"signup"`
	Login     Login     `yaml:"login"`
	Notice    Notice    `yaml:"notice"`
	Cookies   Cookies   `yaml:"cookies"`
	Upload    Upload    `yaml:"upload"`
	CORS      CORS      `yaml:"cors"`
	RateLimit RateLimit `yaml:"ratelimit"`
	Templates Templates `yaml:"templates"`
}

type HTTP struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Signup struct {
	Roles []string `yaml:"roles"`
	// AutoLogin is a pointer so an explicit "false" survives defaulting.
	AutoLogin           *bool  `yaml:"auto_login"`
	AutoLoginIdentifier string `yaml:"auto_login_identifier"`
	DefaultRedirect     string `yaml:"default_redirect"`
}

type Login struct {
	DefaultRedirect string `yaml:"default_redirect"`
}

type Notice struct {
	FlashDuration time.Duration `yaml:"flash_duration"`
}

type Cookies struct {
	Secure bool `yaml:"secure"`
}

type Upload struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimit struct {
	AuthRate  float64       `yaml:"auth_rate"`  // tokens per second
	AuthBurst float64       `yaml:"auth_burst"` // bucket capacity
	Expire    time.Duration `yaml:"expire"`
}

type Templates struct {
	// Dir, when set, loads templates from disk instead of the embedded copy.
	Dir    string `yaml:"dir"`
	Reload bool   `yaml:"reload"`
}

// AutoLoginEnabled reports whether signup logs the new user in right away.
func (s Signup) AutoLoginEnabled() bool {
	return s.AutoLogin == nil || *s.AutoLogin
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8081"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 10 * time.Second
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://api:8080"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Signup.Roles) == 0 {
		c.Signup.Roles = []string{"student", "teacher"}
	}
	if c.Signup.AutoLoginIdentifier == "" {
		c.Signup.AutoLoginIdentifier = IdentifierFullName
	}
	if c.Signup.DefaultRedirect == "" {
		c.Signup.DefaultRedirect = "/dashboard"
	}
	if c.Login.DefaultRedirect == "" {
		c.Login.DefaultRedirect = "/"
	}
	if c.Notice.FlashDuration == 0 {
		c.Notice.FlashDuration = 2 * time.Second
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 10 << 20
	}
	if c.RateLimit.AuthRate == 0 {
		c.RateLimit.AuthRate = 1
	}
	if c.RateLimit.AuthBurst == 0 {
		c.RateLimit.AuthBurst = 10
	}
	if c.RateLimit.Expire == 0 {
		c.RateLimit.Expire = 10 * time.Minute
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.HTTP.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvSecureCookies); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSecureCookies, err)
		}
		c.Cookies.Secure = secure
	}
	return nil
}

// Validate rejects configurations the frontend cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	switch c.Signup.AutoLoginIdentifier {
	case IdentifierFullName, IdentifierEmail:
	default:
		return fmt.Errorf("signup.auto_login_identifier must be %q or %q, got %q",
			IdentifierFullName, IdentifierEmail, c.Signup.AutoLoginIdentifier)
	}
	for _, role := range c.Signup.Roles {
		if strings.TrimSpace(role) == "" {
			return errors.New("signup.roles must not contain empty roles")
		}
	}
	return nil
}

// Load reads the yaml file at configPath (skipped when empty), loads the
// optional env files, applies defaults and env overrides, then validates.
func Load(configPath string, envFiles ...string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("can't read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("can't unmarshal config file: %w", err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("can't load env file %s: %w", f, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad(configPath string, envFiles ...string) *Config {
	cfg, err := Load(configPath, envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}
