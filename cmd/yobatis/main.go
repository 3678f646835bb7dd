// Command yobatis inspects a database schema and reports, for every table,
// its primary key and whether that key is a single auto-increment column.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "yobatis",
		Usage: "Introspect table keys of a MySQL or PostgreSQL schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the yobatis config file",
				Value:   "yobatis.yaml",
				Sources: cli.EnvVars("YOBATIS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "dotenv file consulted for ${...} properties after the process environment",
				Sources: cli.EnvVars("YOBATIS_ENV_FILE"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level (debug, info, warn, error, disabled)",
			},
		},
		Commands: []*cli.Command{
			introspectCommand(),
			serveCommand(),
			propertiesCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes configuration mistakes from an unreachable database.
func exitCode(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindInvalidConfiguration, errs.ErrKindInvalidArgument:
		return 2
	case errs.ErrKindResourceNotAvailable:
		return 3
	default:
		return 1
	}
}
