package cli

import (
	"context"
	"fmt"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"

	"github.com/urfave/cli/v3"
)

// listEventTypesCommand returns a CLI command that prints the event-type
// keys with at least one registered handler.
//
// Usage example:
//
//	passportx events
func listEventTypesCommand(registry *dispatch.Registry) *cli.Command {
	return &cli.Command{
		Name:        "events",
		Description: "List the event-type keys currently registered in the dispatch registry.",
		Usage:       "Prints one registered event-type key per line.",
		Action: func(ctx context.Context, c *cli.Command) error {
			for _, eventType := range registry.EventTypes() {
				fmt.Fprintln(c.Writer, eventType)
			}
			return nil
		},
	}
}
