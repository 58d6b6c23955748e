package cli

import (
	"context"
	"os"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/ingest"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the passportx CLI application.
//
// It registers all available commands:
//
//   - `process`: runs one webhook payload through the event pipeline.
//   - `events`: lists the registered event-type keys.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - svc: The ingest pipeline used by the process command.
//   - registry: The handler registry inspected by the events command.
func Run(ctx context.Context, svc ingest.Service, registry *dispatch.Registry) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "passportx",
		Description:           "Command-line interface for the PassportX chainhook event engine.",
		Usage:                 "passportx [command] [flags]",
		Commands: []*cli.Command{
			processPayloadCommand(svc),
			listEventTypesCommand(registry),
		},
	}

	return app.Run(ctx, os.Args)
}
