// Package cli provides the command-line interface for the advisor.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/complyward/advisor-go/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL   string
	workspaceID string
	userID      string

	api *client.Advisor
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Complyward compliance advisor",
	Long: `Advisor is the conversational interface to your Complyward workspace.

Ask about your compliance posture, documents, controls and tasks, and get
answers grounded in your workspace data and the regulatory knowledge base.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if workspaceID == "" || userID == "" {
			return fmt.Errorf("workspace and user are required (flags or ADVISOR_WORKSPACE / ADVISOR_USER)")
		}
		api = client.NewAdvisor(serverURL, workspaceID, userID)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("ADVISOR_SERVER", "http://localhost:8585"), "advisor server URL")
	rootCmd.PersistentFlags().StringVar(&workspaceID, "workspace", os.Getenv("ADVISOR_WORKSPACE"), "workspace id")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("ADVISOR_USER"), "user id")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(deleteCmd)
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
