package main

import (
	"fmt"

	"project-crm-api/internal/apiclient"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the shared account and save the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		client := apiclient.New(serverURL)
		token, err := client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if err := saveToken(token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s; token saved to %s\n", username, tokenFile)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "admin", "account name")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
