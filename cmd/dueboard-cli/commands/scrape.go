package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dueboard/lib/deadline"
	"dueboard/lib/serviceutil"
	"dueboard/services/ingest"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

// batchCollector satisfies the ingest engine contract by collecting the
// extracted records so they can be posted to the server instead.
type batchCollector struct {
	items *[]deadline.Record
}

func (c batchCollector) Ingest(ctx context.Context, items []deadline.Record) error {
	*c.items = append(*c.items, items...)
	return nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <saved-page.html>...",
	Short: "Extracts deadlines from saved course pages and delivers them to the server.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var all []deadline.Record
		svc := ingest.NewService(batchCollector{&all}, ingest.Options{})

		for _, path := range args {
			n, err := svc.IngestFile(cmd.Context(), path)
			if err != nil {
				serviceutil.Fatal("extract snapshot", err)
			}
			slog.Info("extracted", "path", path, "records", n)
		}

		if len(all) == 0 {
			slog.Warn("nothing extracted, nothing delivered")
			return
		}

		res, err := client().R().
			SetContext(cmd.Context()).
			SetBody(map[string][]deadline.Record{"items": all}).
			Post("/api/scrape")
		if err != nil {
			serviceutil.Fatal("deliver scrape", err)
		}
		if res.IsError() {
			serviceutil.Fatal("deliver scrape", fmt.Errorf("server said %s: %s", res.Status(), res.String()))
		}
		slog.Info("delivered", "records", len(all))
	},
}
