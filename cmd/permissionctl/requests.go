package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	reqsCmd := &cobra.Command{Use: "requests", Short: "Permission request operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pending permission requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := withUser(client().R()).Get("/api/permission-requests")
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	reqsCmd.AddCommand(listCmd)

	approveCmd := &cobra.Command{
		Use:   "approve REQUEST_ID",
		Short: "Approve a request, granting the permission it describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Post(fmt.Sprintf("/api/permission-requests/%s/approve", args[0]))
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	reqsCmd.AddCommand(approveCmd)

	denyCmd := &cobra.Command{
		Use:   "deny REQUEST_ID",
		Short: "Deny a request, removing it without granting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Delete(fmt.Sprintf("/api/permission-requests/%s", args[0]))
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			fmt.Println("denied")
			return nil
		},
	}
	reqsCmd.AddCommand(denyCmd)

	rootCmd.AddCommand(reqsCmd)
}
