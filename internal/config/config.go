package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	Site     Site     `envPrefix:"SITE_"`
	Secret   Secret   `envPrefix:"SECRET_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains storage file parameters.
type Database struct {
	Path string `env:"PATH" envDefault:"notelace.db"`
}

// Site contains the public identity of the instance.
type Site struct {
	BaseURL    string `env:"BASE_URL" envDefault:"http://localhost:8080/"`
	Title      string `env:"TITLE" envDefault:"notelace"`
	CookiePath string `env:"COOKIE_PATH" envDefault:"/"`
}

// Secret contains the signing secrets that must survive restarts. The
// session secret is deliberately not configurable; it is regenerated on
// every start so sessions die with the process generation.
type Secret struct {
	Invite   string `env:"INVITE" envDefault:"devsecret-invite"`
	Password string `env:"PASSWORD" envDefault:"devsecret-password"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !strings.HasSuffix(cfg.Site.BaseURL, "/") {
		cfg.Site.BaseURL += "/"
	}

	return &cfg, nil
}
