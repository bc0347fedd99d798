package commands

import (
	"fmt"

	"dueboard/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(badgeCmd)
}

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Prints the count of deadlines due within 24 hours.",
	Run: func(cmd *cobra.Command, args []string) {
		var body struct {
			Count int `json:"count"`
		}
		res, err := client().R().
			SetContext(cmd.Context()).
			SetResult(&body).
			Get("/api/badge")
		if err != nil {
			serviceutil.Fatal("fetch badge", err)
		}
		if res.IsError() {
			serviceutil.Fatal("fetch badge", fmt.Errorf("server said %s", res.Status()))
		}
		fmt.Println(body.Count)
	},
}
