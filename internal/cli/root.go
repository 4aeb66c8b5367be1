// Package cli implements the taskboard command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/store"
)

// Version is reported by --version. Release builds set it with
// -ldflags "-X taskboard/internal/cli.Version=...".
var Version = "dev"

// app carries state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configFile string
	dir        string
	file       string
	backend    string
	dbPath     string
	logLevel   string

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Track one-off and recurring tasks in a markdown file",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./taskboard.toml)")
	flags.StringVar(&a.dir, "dir", "", "directory holding the task file")
	flags.StringVar(&a.file, "file", "", "task file name inside --dir")
	flags.StringVar(&a.backend, "backend", "", "storage backend: file or sqlite")
	flags.StringVar(&a.dbPath, "db", "", "database path for the sqlite backend")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(removeCmd(a))
	rootCmd.AddCommand(completeCmd(a))
	rootCmd.AddCommand(dueCmd(a))

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile})
	if err != nil {
		return err
	}

	// Flags override everything else.
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Tasks.Dir = a.dir
	}
	if flags.Changed("file") {
		cfg.Tasks.File = a.file
	}
	if flags.Changed("backend") {
		cfg.Tasks.Backend = a.backend
	}
	if flags.Changed("db") {
		cfg.Tasks.DBPath = a.dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LoggingOptions())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStore opens the configured backend. The caller closes it.
func (a *app) openStore() (*store.TaskStore, error) {
	opts := []store.Option{store.WithLogger(a.logger)}

	switch a.cfg.Tasks.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(a.cfg.Tasks.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := store.NewSQLiteStore(a.cfg.Tasks.DBPath, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		return s, nil
	default:
		opts = append(opts, store.WithFileName(a.cfg.Tasks.File))
		return store.NewFileStore(a.cfg.Tasks.Dir, opts...), nil
	}
}

// withStore opens the store, runs fn and closes the store.
func (a *app) withStore(fn func(s *store.TaskStore) error) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}
