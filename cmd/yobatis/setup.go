package main

import (
	"os"

	"github.com/koustreak/yobatis/internal/config"
	"github.com/koustreak/yobatis/internal/database"
	"github.com/koustreak/yobatis/internal/database/dialects"
	"github.com/koustreak/yobatis/internal/logger"
	"github.com/urfave/cli/v3"
)

type app struct {
	cfg   *config.Config
	props config.Source
	log   *logger.Logger
}

func loadApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	props, err := cfg.Sources(cmd.String("env"))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, props: props, log: cfg.Logger(os.Stderr)}, nil
}

func (a *app) provider() (*database.Provider, error) {
	params, err := a.cfg.ConnParams(a.props)
	if err != nil {
		return nil, err
	}
	name, err := a.cfg.DialectName(a.props)
	if err != nil {
		return nil, err
	}

	dialect, err := dialects.Resolve(name, params.URL, a.log)
	if err != nil {
		return nil, err
	}

	return database.NewProvider(params, dialect,
		database.WithLogger(a.log),
		database.WithExcludeTables(a.cfg.Datasource.ExcludeTables...),
	)
}
