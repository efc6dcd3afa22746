package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/quant/quant"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the available quantizers with their default configurations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, name := range quant.KnownQuantizers {
				q, err := quant.Get(name)
				if err != nil {
					return fmt.Errorf("construct %s: %w", name, err)
				}
				cfg, err := q.Config().ToJSON()
				if err != nil {
					return fmt.Errorf("serialize %s: %w", name, err)
				}
				_, _ = fmt.Fprintf(os.Stdout, "%-22s precision=%-2d %s\n", name, q.Precision(), cfg)
			}
			return nil
		},
	}
}
