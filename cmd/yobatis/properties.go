package main

import (
	"context"
	"fmt"
	"io"

	"github.com/koustreak/yobatis/internal/config"
	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/placeholder"
	"github.com/urfave/cli/v3"
)

func propertiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "properties",
		Usage: "List the ${...} properties the datasource refers to and whether they resolve",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			missing := reportProperties(cmd.Root().Writer, a.cfg.Datasource, a.props)
			if missing > 0 {
				return errs.Newf(errs.ErrKindInvalidConfiguration, "%d properties are not defined", missing)
			}
			return nil
		},
	}
}

// reportProperties prints one line per placeholder and returns how many
// could not be resolved. Secret values are never printed.
func reportProperties(w io.Writer, ds config.Datasource, props config.Source) int {
	missing := 0
	fields := []struct{ name, raw string }{
		{"dialect", ds.Dialect},
		{"url", ds.URL},
		{"username", ds.Username},
		{"password", ds.Password},
		{"driverClassName", ds.DriverClassName},
		{"connectorJarPath", ds.ConnectorJarPath},
	}
	for _, f := range fields {
		for tok := range placeholder.ExtractAll(f.raw) {
			name := placeholder.ValueOf(tok)
			status := "ok"
			if _, ok := props.Lookup(name); !ok {
				status = "missing"
				missing++
			}
			fmt.Fprintf(w, "%-18s %-24s %s\n", f.name, name, status)
		}
	}
	return missing
}
