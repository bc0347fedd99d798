package commands

import (
	"fmt"
	"os"
	"time"

	"dueboard/lib/deadline"
	"dueboard/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listAll *bool

func init() {
	listAll = listCmd.Flags().Bool("all", false, "Include completed records.")
	rootCmd.AddCommand(listCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var listCmd = &cobra.Command{
	Use:   "list [--all]",
	Short: "Lists tracked deadlines, soonest first.",
	Run: func(cmd *cobra.Command, args []string) {
		var col deadline.Collection
		res, err := client().R().
			SetContext(cmd.Context()).
			SetResult(&col).
			Get("/api/data")
		if err != nil {
			serviceutil.Fatal("fetch data", err)
		}
		if res.IsError() {
			serviceutil.Fatal("fetch data", fmt.Errorf("server said %s", res.Status()))
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Title", "Course", "Due", "Done", "Notified"})
		for _, r := range col.Items {
			if r.Done && !*listAll {
				continue
			}
			t.AppendRow(table.Row{
				r.ID,
				r.Title,
				r.Course,
				r.DueDate.Format(time.ANSIC),
				r.Done,
				r.NotificationSent,
			})
		}
		t.Render()
	},
}
