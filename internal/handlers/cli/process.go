package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/ingest"

	"github.com/urfave/cli/v3"
)

// processPayloadCommand returns a CLI command that decodes one webhook
// payload from a JSON file (or stdin with "-") and runs it through the
// event pipeline, printing the dispatch outcome.
//
// Usage example:
//
//	passportx process --payload block-1042.json
func processPayloadCommand(svc ingest.Service) *cli.Command {
	return &cli.Command{
		Name:        "process",
		Description: "Run a single webhook payload through the handler dispatch pipeline.",
		Usage:       "Reads a payload JSON file, dispatches it, and prints the per-handler outcome.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "payload",
				Usage:    "Path to the payload JSON file, or '-' for stdin",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			payload, err := readPayload(c.String("payload"))
			if err != nil {
				return err
			}

			result, err := svc.ProcessPayload(ctx, payload)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Writer, string(out))
			return nil
		},
	}
}

func readPayload(path string) (*chainhook.Payload, error) {
	var (
		raw []byte
		err error
	)

	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var payload chainhook.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	return &payload, nil
}
