package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings is the typed view over the environment used by the CLI and the
// companion server.
type Settings struct {
	Env   string
	Debug bool

	Registry RegistrySettings
	Engine   EngineSettings
	Prefs    PrefsSettings
	Web      WebSettings
}

// RegistrySettings configures the address registry client
type RegistrySettings struct {
	URL             string
	TypeName        string
	PageSize        int
	Timeout         time.Duration
	RatePerSecond   float64
	ExcludeSubunits bool
}

// EngineSettings holds the conflation and interaction thresholds
type EngineSettings struct {
	ConflictRadius float64
	ClickRadiusPx  float64
	MinVisibleZoom int
}

// PrefsSettings selects the preference backend
type PrefsSettings struct {
	Backend     string // "file" or "postgres"
	File        string
	DatabaseURL string
}

// WebSettings contains HTTP server settings
type WebSettings struct {
	Host   string
	Port   int
	APIKey string // empty disables the X-API-Key check
}

// Addr returns host:port
func (w WebSettings) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// Load reads .env (if any) and builds Settings from the environment
func Load() (*Settings, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	s := &Settings{
		Env:   GetEnv("APP_ENV", "production"),
		Debug: GetEnvBool("HNI_DEBUG", false),
		Registry: RegistrySettings{
			URL:             GetEnv("REGISTRY_URL", "https://storitve.eprostor.gov.si/ows-ins-wfs/ows"),
			TypeName:        GetEnv("REGISTRY_TYPE_NAME", "ad:Address"),
			PageSize:        GetEnvInt("REGISTRY_PAGE_SIZE", 1000),
			Timeout:         GetEnvDuration("REGISTRY_TIMEOUT", 30*time.Second),
			RatePerSecond:   GetEnvFloat("REGISTRY_RATE", 2),
			ExcludeSubunits: GetEnvBool("REGISTRY_EXCLUDE_SUBUNITS", true),
		},
		Engine: EngineSettings{
			ConflictRadius: GetEnvFloat("CONFLICT_RADIUS", 10),
			ClickRadiusPx:  GetEnvFloat("CLICK_RADIUS_PX", 25),
			MinVisibleZoom: GetEnvInt("MIN_VISIBLE_ZOOM", 18),
		},
		Prefs: PrefsSettings{
			Backend:     GetEnv("PREFS_BACKEND", "file"),
			File:        GetEnv("PREFS_FILE", defaultPrefsFile()),
			DatabaseURL: GetEnv("DATABASE_URL", ""),
		},
		Web: WebSettings{
			Host:   GetEnv("WEB_HOST", "localhost"),
			Port:   GetEnvInt("WEB_PORT", 8090),
			APIKey: GetEnv("WEB_API_KEY", ""),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the engine cannot run with
func (s *Settings) Validate() error {
	if s.Registry.PageSize <= 0 {
		return fmt.Errorf("REGISTRY_PAGE_SIZE must be positive, got %d", s.Registry.PageSize)
	}
	if s.Engine.ConflictRadius < 0 {
		return fmt.Errorf("CONFLICT_RADIUS must not be negative, got %v", s.Engine.ConflictRadius)
	}
	if s.Engine.ClickRadiusPx <= 0 {
		return fmt.Errorf("CLICK_RADIUS_PX must be positive, got %v", s.Engine.ClickRadiusPx)
	}
	switch s.Prefs.Backend {
	case "file":
	case "postgres":
		if s.Prefs.DatabaseURL == "" {
			return fmt.Errorf("PREFS_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown PREFS_BACKEND %q", s.Prefs.Backend)
	}
	return nil
}

func defaultPrefsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slhn-prefs.yaml"
	}
	return filepath.Join(home, ".slhn", "prefs.yaml")
}
