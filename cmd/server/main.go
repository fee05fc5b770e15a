package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/taskboard/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode."`
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" help:"Start the task-board server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Run database migrations and exit"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
