package commands

import (
	"fmt"
	"log/slog"

	"dueboard/lib/deadline"
	"dueboard/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	settingsEnable  *bool
	settingsDisable *bool
	settingsHours   *float64
)

func init() {
	settingsEnable = settingsCmd.Flags().Bool("enable", false, "Enable notifications.")
	settingsDisable = settingsCmd.Flags().Bool("disable", false, "Disable notifications.")
	settingsHours = settingsCmd.Flags().Float64("hours", 0, "Due-soon window size in hours.")
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings [--enable|--disable] [--hours <n>]",
	Short: "Shows or updates notification settings.",
	Run: func(cmd *cobra.Command, args []string) {
		patch := map[string]any{}
		if *settingsEnable {
			patch["notificationsEnabled"] = true
		}
		if *settingsDisable {
			patch["notificationsEnabled"] = false
		}
		if *settingsHours > 0 {
			patch["notificationHours"] = *settingsHours
		}

		var settings deadline.Settings
		req := client().R().SetContext(cmd.Context()).SetResult(&settings)

		if len(patch) == 0 {
			var col deadline.Collection
			res, err := client().R().
				SetContext(cmd.Context()).
				SetResult(&col).
				Get("/api/data")
			if err != nil {
				serviceutil.Fatal("fetch settings", err)
			}
			if res.IsError() {
				serviceutil.Fatal("fetch settings", fmt.Errorf("server said %s", res.Status()))
			}
			settings = col.Settings
		} else {
			res, err := req.SetBody(patch).Patch("/api/settings")
			if err != nil {
				serviceutil.Fatal("update settings", err)
			}
			if res.IsError() {
				serviceutil.Fatal("update settings", fmt.Errorf("server said %s: %s", res.Status(), res.String()))
			}
		}

		slog.Info("settings",
			"notificationsEnabled", settings.NotificationsEnabled,
			"notificationHours", settings.NotificationHours)
	},
}
