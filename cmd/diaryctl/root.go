package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"daybook/internal/config"
	"daybook/internal/infra/store"
	"daybook/internal/observability/logging"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	settingsPath string
	driver       string
	dsn          string
	timezone     string

	cfg    *config.DiaryConfig
	stores *store.Stores
	logger *slog.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "diaryctl",
		Short: "Browse and edit the diary",
		Long: `diaryctl reads and writes the same stores as the daybook API.
Connection settings come from ~/.daybook/config.toml, the environment
(DIARY_STORE, DATABASE_URL, DIARY_TIMEZONE, ...) and the flags below.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.settingsPath, "config", "", "settings file (default ~/.daybook/config.toml)")
	pf.StringVar(&a.driver, "store", "", "store driver: memory, sqlite or postgres")
	pf.StringVar(&a.dsn, "dsn", "", "database URL or SQLite file")
	pf.StringVar(&a.timezone, "timezone", "", "IANA timezone for month and date pages")

	root.AddCommand(newPageCmd(a), newAddCmd(a), newReindexCmd(a))
	return root, a
}

// open resolves the settings and connects the stores.
func (a *app) open(cmd *cobra.Command) error {
	a.logger = logging.New(cmd.ErrOrStderr(), logging.Options{Level: slog.LevelWarn, Text: true})
	slog.SetDefault(a.logger)

	cfg, err := config.LoadDiaryConfig("")
	if err != nil {
		return err
	}

	path, required := a.settingsPath, true
	if path == "" {
		if path, err = defaultSettingsPath(); err != nil {
			return fmt.Errorf("locate settings: %w", err)
		}
		required = false
	}
	settings, err := readSettings(path, required)
	if err != nil {
		return err
	}
	settings.apply(cfg)

	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.dsn != "" {
		cfg.Store.DSN = a.dsn
	}
	if a.timezone != "" {
		cfg.Browse.Timezone = a.timezone
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	a.stores, err = store.Open(cmd.Context(), cfg, a.logger)
	return err
}

// close releases the stores. Flag validation runs after PersistentPreRunE, so
// callers close even when Execute fails.
func (a *app) close() error {
	if a.stores == nil {
		return nil
	}
	err := a.stores.Close()
	a.stores = nil
	return err
}
