package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag int
	rootCmd  = &cobra.Command{
		Use:   "permissionctl",
		Short: "CLI client for the permission service REST API",
	}
)

func client() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
}

// checkStatus turns a non-2xx response into an error carrying the body.
func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
}

func printBody(resp *resty.Response) error {
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, resp.String())
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Permission service base URL")
	rootCmd.PersistentFlags().IntVarP(&userFlag, "user", "u", 0, "User ID (defaults to the service demo user)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
