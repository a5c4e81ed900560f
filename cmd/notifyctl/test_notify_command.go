package main

import (
	"fmt"
	"os"
	"strings"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/attachment"
	"refund-relay/internal/pkg/notifier"
	serverApp "refund-relay/internal/server"
	refundService "refund-relay/internal/service/refund"
	settingsService "refund-relay/internal/service/settings"

	"github.com/spf13/cobra"
)

const defaultTestMessage = "Test notification from notifyctl"

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "test-notify [message]",
		Short: "Send a message to every configured target",
		Long: `Relays a message through the same path as POST /api/v1/notify,
including the notification switch. The exit status is non-zero unless every
target accepted the message.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			message := defaultTestMessage
			if len(args) == 1 {
				message = args[0]
			}

			var file *types.BufferedFile
			if filePath != "" {
				f, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("open attachment: %w", err)
				}
				enc, err := attachment.Encode(f.Name(), f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("read attachment: %w", err)
				}
				if enc.OverSoftLimit {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: attachment is larger than 5 MB")
				}
				file = enc.File
			}

			return ctx.withSettings(cmd.Context(), func(settings settingsService.IService) error {
				svc := refundService.NewService(cmd.Context(), refundService.Dependencies{
					Settings:   settings,
					Dispatcher: serverApp.NewDispatcher(env, nil, nil),
					Targets:    env.Targets,
				})

				res := svc.Notify(cmd.Context(), message, file)
				if report, ok := res.Data.(*notifier.Report); ok && !ctx.jsonOutput {
					printReport(cmd, report)
				}
				return ctx.printResponse(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Image to send with the message")

	return cmd
}

func printReport(cmd *cobra.Command, report *notifier.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report %s: %s\n", report.ID, report.Status)
	for _, o := range report.Outcomes {
		if o.Success {
			fmt.Fprintf(out, "  %-16s ok (%d ms)\n", o.Target, o.DurationMS)
			continue
		}
		fmt.Fprintf(out, "  %-16s %s: %s\n", o.Target, o.Kind, strings.TrimSpace(o.Reason))
	}
}
