package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/slhn-import/internal/config"
	"github.com/slhn-import/internal/db"
	"github.com/slhn-import/internal/debug"
	"github.com/slhn-import/internal/logging"
	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/registry"
)

var (
	settings *config.Settings
	logger   *zap.Logger
	output   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hnimport",
		Short: "Slovenian house-number import tool",
		Long:  `Fetch registry addresses, conflate them with a host snapshot, resolve segments and serve the companion API`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = config.Load()
			if err != nil {
				return err
			}
			logger, err = logging.New(settings.Env, settings.Debug)
			if err != nil {
				return err
			}
			debug.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(createFetchCmd())
	rootCmd.AddCommand(createConflateCmd())
	rootCmd.AddCommand(createResolveCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPrefsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRegistryClient builds the registry client from the environment settings
func newRegistryClient() *registry.Client {
	return registry.NewClient(registry.Config{
		BaseURL:         settings.Registry.URL,
		TypeName:        settings.Registry.TypeName,
		PageSize:        settings.Registry.PageSize,
		Timeout:         settings.Registry.Timeout,
		RatePerSecond:   settings.Registry.RatePerSecond,
		ExcludeSubunits: settings.Registry.ExcludeSubunits,
	}, logger.Named("registry"))
}

// openPrefs opens the configured preference backend. The returned close
// function releases the database connection, if any.
func openPrefs(ctx context.Context) (*prefs.Prefs, func() error, error) {
	switch settings.Prefs.Backend {
	case "postgres":
		conn, err := db.NewConnection(ctx, settings.Prefs.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := prefs.NewSQLStore(conn.DB, prefs.DialectPostgres)
		if err := store.Init(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return prefs.New(store), conn.Close, nil
	default:
		return prefs.New(prefs.NewFileStore(settings.Prefs.File)), func() error { return nil }, nil
	}
}

func printOutput(w io.Writer, v interface{}) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

// parseBBox parses "minx,miny,maxx,maxy"
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox needs 4 comma-separated numbers, got %q", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox minimum exceeds maximum: %q", s)
	}

	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
