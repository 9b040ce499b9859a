package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyward/advisor-go/internal/models"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show the messages of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := api.History(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("session history: %w", err)
	}

	theme := DefaultTheme
	if history.Session.Title != nil {
		fmt.Println(theme.actionStyle().Render(*history.Session.Title))
		fmt.Println()
	}
	for _, msg := range history.Messages {
		switch msg.Role {
		case models.MessageRoleAssistant:
			fmt.Println(theme.assistantStyle().Render("advisor: " + msg.Content))
		default:
			fmt.Println("you: " + msg.Content)
		}
		fmt.Println()
	}
	return nil
}
