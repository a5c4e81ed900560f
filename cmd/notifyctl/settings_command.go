package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refund-relay/internal/common/models"
	settingsService "refund-relay/internal/service/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change the notification and maintenance switches",
	}

	settingsCmd.AddCommand(newSettingsGetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func newSettingsGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current switches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSettings(cmd.Context(), func(settings settingsService.IService) error {
				res := settings.GetSettings()
				if setting, ok := res.Data.(*models.Setting); ok && !ctx.jsonOutput {
					fmt.Fprintf(cmd.OutOrStdout(), "telegramDisabled: %t\nwebDisabled:      %t\n", setting.TelegramDisabled, setting.WebDisabled)
					return nil
				}
				return ctx.printResponse(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var telegramDisabled, webDisabled bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the switches named by flags",
		Example: `  notifyctl settings set --telegram-disabled=true
  notifyctl settings set --web-disabled=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &settingsService.UpdateSettingsRequest{}
			if cmd.Flags().Changed("telegram-disabled") {
				req.TelegramDisabled = &telegramDisabled
			}
			if cmd.Flags().Changed("web-disabled") {
				req.WebDisabled = &webDisabled
			}

			return ctx.withSettings(cmd.Context(), func(settings settingsService.IService) error {
				return ctx.printResponse(cmd.OutOrStdout(), settings.UpdateSettings(req))
			})
		},
	}

	cmd.Flags().BoolVar(&telegramDisabled, "telegram-disabled", false, "Stop relaying submissions to Telegram")
	cmd.Flags().BoolVar(&webDisabled, "web-disabled", false, "Put the refund form into maintenance")

	return cmd
}
