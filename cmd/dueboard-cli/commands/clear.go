package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dueboard/lib/serviceutil"

	"github.com/spf13/cobra"
)

var clearYes *bool

func init() {
	clearYes = clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt.")
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear [--yes]",
	Short: "Deletes every record and resets settings to defaults.",
	Run: func(cmd *cobra.Command, args []string) {
		if !*clearYes {
			fmt.Print("This deletes all tracked deadlines. Continue? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("aborted")
				return
			}
		}

		res, err := client().R().
			SetContext(cmd.Context()).
			Delete("/api/data")
		if err != nil {
			serviceutil.Fatal("clear data", err)
		}
		if res.IsError() {
			serviceutil.Fatal("clear data", fmt.Errorf("server said %s", res.Status()))
		}
		slog.Info("cleared all data")
	},
}
