package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newTargetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the configured Telegram targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(env.Targets)
			}

			if len(env.Targets) == 0 {
				fmt.Fprintln(out, "No targets configured")
				return nil
			}
			for i, t := range env.Targets {
				fmt.Fprintf(out, "%d. %s\n", i+1, t.Masked())
			}
			return nil
		},
	}
}
