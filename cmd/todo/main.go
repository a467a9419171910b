package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/nhle/todocard/internal/app"
	"github.com/nhle/todocard/internal/logging"
	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/store"
	appsync "github.com/nhle/todocard/internal/sync"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the config file")
	dbPath := fs.String("db", "", "path to the SQLite database (overrides store.path)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	initConfig := fs.Bool("init-config", false, "write the effective config to --config and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *initConfig {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			return err
		}
		fmt.Println("wrote", *configPath)
		return nil
	}

	logger, logFile, err := logging.Open(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("starting", "db", cfg.Store.Path, "config", *configPath)

	poller := appsync.New(s, time.Duration(cfg.Display.RefreshSeconds)*time.Second)
	defer poller.Stop()

	m := app.New(app.Options{
		Store:         s,
		Logger:        logger,
		ConfirmDelete: cfg.Card.ConfirmDelete,
		CardWidth:     cfg.Display.Width,
		Poller:        poller,
		Config:        cfg,
		ConfigPath:    *configPath,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}
