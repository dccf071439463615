package main

import (
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// withUser attaches the --user flag as a userId query parameter when set.
func withUser(req *resty.Request) *resty.Request {
	if userFlag > 0 {
		req.SetQueryParam("userId", strconv.Itoa(userFlag))
	}
	return req
}

func init() {
	permsCmd := &cobra.Command{Use: "permissions", Short: "Permission operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := withUser(client().R()).Get("/api/permissions")
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	permsCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get PERMISSION_ID",
		Short: "Get a permission by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get(fmt.Sprintf("/api/permissions/%s", args[0]))
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	permsCmd.AddCommand(getCmd)

	revokeCmd := &cobra.Command{
		Use:   "revoke PERMISSION_ID",
		Short: "Revoke a permission (deactivates it, keeping the record)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one PERMISSION_ID required")
			}
			resp, err := client().R().
				SetBody(map[string]interface{}{"isActive": false}).
				Patch(fmt.Sprintf("/api/permissions/%s", args[0]))
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	permsCmd.AddCommand(revokeCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete PERMISSION_ID",
		Short: "Delete a permission record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Delete(fmt.Sprintf("/api/permissions/%s", args[0]))
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	permsCmd.AddCommand(deleteCmd)

	usageCmd := &cobra.Command{
		Use:   "usage PERMISSION_ID",
		Short: "Show derived usage status for a permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().Get(fmt.Sprintf("/api/permissions/%s/usage", args[0]))
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	permsCmd.AddCommand(usageCmd)

	var calls int
	recordCmd := &cobra.Command{
		Use:   "record PERMISSION_ID",
		Short: "Record usage against a permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().
				SetBody(map[string]interface{}{"calls": calls}).
				Post(fmt.Sprintf("/api/permissions/%s/usage", args[0]))
			if err != nil {
				return err
			}
			return printBody(resp)
		},
	}
	recordCmd.Flags().IntVarP(&calls, "calls", "c", 1, "Number of calls to record")
	permsCmd.AddCommand(recordCmd)

	rootCmd.AddCommand(permsCmd)
}
