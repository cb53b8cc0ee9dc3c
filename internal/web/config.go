package web

import (
	"github.com/slhn-import/internal/config"
	"github.com/slhn-import/internal/render"
	"github.com/slhn-import/internal/session"
)

// Config represents the web server configuration
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Session session.Config
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	APIKey string
}

// ConfigFromSettings builds the server configuration from the environment
// settings
func ConfigFromSettings(s *config.Settings) *Config {
	cfg := DefaultConfig()
	cfg.Server.Host = s.Web.Host
	cfg.Server.Port = s.Web.Port
	cfg.Auth.APIKey = s.Web.APIKey
	cfg.Session.ConflictRadius = s.Engine.ConflictRadius
	cfg.Session.ClickRadiusPx = s.Engine.ClickRadiusPx
	cfg.Session.MinVisibleZoom = s.Engine.MinVisibleZoom
	return cfg
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Session: session.Config{
			ConflictRadius: session.DefaultConfig().ConflictRadius,
			ClickRadiusPx:  session.DefaultConfig().ClickRadiusPx,
			MinVisibleZoom: session.DefaultConfig().MinVisibleZoom,
			Palette:        render.DefaultPalette,
		},
	}
}
