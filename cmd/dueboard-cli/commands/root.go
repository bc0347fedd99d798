package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:   "dueboard-cli",
	Short: "dueboard-cli is an operator client for the deadline server.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Base url of the deadline server.")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token, when the server has auth enabled.")
}

func client() *resty.Client {
	c := resty.New().SetBaseURL(serverURL)
	if authToken != "" {
		c.SetAuthToken(authToken)
	}
	return c
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
