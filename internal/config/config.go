package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	HTTP struct {
		Address string `yaml:"address"`
	} `yaml:"http"`

	API APIConfig `yaml:"api"`

	Session SessionConfig `yaml:"session"`

	Dashboard struct {
		DefaultPerPage int           `yaml:"default_per_page"`
		SubmitLimit    int           `yaml:"submit_limit"`  // transaction submissions per window and client
		SubmitWindow   time.Duration `yaml:"submit_window"` // e.g. "1m"
	} `yaml:"dashboard"`

	Logging struct {
		Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
		Format string `yaml:"format"` // "text" | "json"
	} `yaml:"logging"`

	Security struct {
		FlashSecret   string `yaml:"flash_secret"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"security"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	TokenCookie    string `yaml:"token_cookie"`
	UsernameCookie string `yaml:"username_cookie"`
	LoginURL       string `yaml:"login_url"`
}

func (c *Config) Defaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8123"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.Session.TokenCookie == "" {
		c.Session.TokenCookie = "session_token"
	}
	if c.Session.UsernameCookie == "" {
		c.Session.UsernameCookie = "username"
	}
	if c.Session.LoginURL == "" {
		c.Session.LoginURL = "/login"
	}
	if c.Dashboard.DefaultPerPage == 0 {
		c.Dashboard.DefaultPerPage = 15
	}
	if c.Dashboard.SubmitLimit == 0 {
		c.Dashboard.SubmitLimit = 10
	}
	if c.Dashboard.SubmitWindow == 0 {
		c.Dashboard.SubmitWindow = time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Security.FlashSecret == "" {
		c.Security.FlashSecret = "change-me"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.API.Endpoint(""); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if c.Dashboard.DefaultPerPage < 1 {
		errs = append(errs, errors.New("dashboard.default_per_page must be positive"))
	}
	if !strings.HasPrefix(c.Session.LoginURL, "/") && !strings.HasPrefix(c.Session.LoginURL, "http") {
		errs = append(errs, errors.New("session.login_url must be a path or an absolute URL"))
	}
	return errors.Join(errs...)
}

// Endpoint resolves path against the API base URL.
func (a *APIConfig) Endpoint(path string) (string, error) {
	if a.BaseURL == "" {
		return "", errors.New("base url is empty")
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("base url must be http or https")
	}
	if u.Host == "" {
		return "", errors.New("base url has no host")
	}
	return strings.TrimRight(u.String(), "/") + path, nil
}
