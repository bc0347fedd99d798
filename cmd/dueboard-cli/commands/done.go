package commands

import (
	"fmt"
	"log/slog"

	"dueboard/lib/serviceutil"

	"github.com/spf13/cobra"
)

var doneUndo *bool

func init() {
	doneUndo = doneCmd.Flags().Bool("undo", false, "Mark the record as not done instead.")
	rootCmd.AddCommand(doneCmd)
}

var doneCmd = &cobra.Command{
	Use:   "done <id> [--undo]",
	Short: "Marks a deadline record as completed.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		res, err := client().R().
			SetContext(cmd.Context()).
			SetBody(map[string]bool{"done": !*doneUndo}).
			Post(fmt.Sprintf("/api/items/%s/done", id))
		if err != nil {
			serviceutil.Fatal("toggle done", err)
		}
		if res.IsError() {
			serviceutil.Fatal("toggle done", fmt.Errorf("server said %s: %s", res.Status(), res.String()))
		}
		slog.Info("updated", "id", id, "done", !*doneUndo)
	},
}
