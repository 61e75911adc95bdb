package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"project-crm-api/internal/apiclient"
	"project-crm-api/internal/config"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	tokenFile string
	projectID string
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Command line client for the project CRM API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", config.GetEnv("CRM_API_URL", "http://localhost:8008"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", defaultTokenFile(), "where the session token is stored")
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "", "limit to one project ID")
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".crmctl-token"
	}
	return filepath.Join(dir, "crmctl", "token")
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(tokenFile, []byte(token+"\n"), 0o600)
}

// newClient returns an API client carrying CRM_TOKEN or the saved token
func newClient() (*apiclient.Client, error) {
	token := os.Getenv("CRM_TOKEN")
	if token == "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, errors.New("not logged in; run crmctl login")
			}
			return nil, err
		}
		token = strings.TrimSpace(string(data))
	}
	return apiclient.New(serverURL, apiclient.WithToken(token)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
