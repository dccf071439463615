package main

import (
	"github.com/spf13/cobra"
)

func init() {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show the wallet health score, factors, and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/gamification")
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	rootCmd.AddCommand(healthCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get("/api/health")
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	rootCmd.AddCommand(statusCmd)
}
