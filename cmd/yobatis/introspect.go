package main

import (
	"context"
	"io"
	"os"

	"github.com/koustreak/yobatis/internal/filestore"
	"github.com/koustreak/yobatis/internal/filestore/minio"
	"github.com/koustreak/yobatis/internal/snapshot"
	"github.com/urfave/cli/v3"
)

func introspectCommand() *cli.Command {
	return &cli.Command{
		Name:    "introspect",
		Aliases: []string{"i"},
		Usage:   "Print the primary keys and auto-increment columns of every table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (json, yaml)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the snapshot to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "also upload the snapshot to the configured object store",
			},
		},
		Action: runIntrospect,
	}
}

func runIntrospect(ctx context.Context, cmd *cli.Command) error {
	format, err := snapshot.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	p, err := a.provider()
	if err != nil {
		return err
	}

	snap, err := snapshot.Take(ctx, p, p.Dialect().Name())
	if err != nil {
		return err
	}

	if err := writeSnapshot(snap, format, cmd.String("out")); err != nil {
		return err
	}

	if cmd.Bool("publish") {
		return a.publish(ctx, snap, format)
	}
	return nil
}

func writeSnapshot(snap *snapshot.Snapshot, format snapshot.Format, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return snap.Encode(w, format)
}

func (a *app) publish(ctx context.Context, snap *snapshot.Snapshot, format snapshot.Format) error {
	pub, err := a.cfg.ResolvedPublish(a.props)
	if err != nil {
		return err
	}

	cfg := filestore.DefaultConfig(pub.Endpoint, pub.AccessKey, pub.SecretKey)
	cfg.UseSSL = pub.UseSSL
	cfg.Region = pub.Region

	store, err := minio.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := snapshot.Publish(ctx, store, pub.Bucket, pub.Key, snap, format)
	if err != nil {
		return err
	}
	a.log.With().
		Str("bucket", info.Bucket).
		Str("key", info.Key).
		Str("etag", info.ETag).
		Logger().
		Info("snapshot published")
	return nil
}
