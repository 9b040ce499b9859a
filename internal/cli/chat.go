package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyward/advisor-go/internal/models"
)

var (
	chatSession string
	chatContext string
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the advisor",
	Long: `Send one message to the advisor and print the answer with any
follow-up suggestions and actions.

Pass --session to continue an existing conversation; without it a new
session is created and its id printed so you can continue later.

Examples:
  advisor chat "What is my compliance score?"
  advisor chat "And which controls need attention?" --session session-1a2b
  advisor chat "Summarize this policy" --context "viewing document doc-42"`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "continue an existing session")
	chatCmd.Flags().StringVar(&chatContext, "context", "", "page context to pass along")
}

func runChat(cmd *cobra.Command, args []string) error {
	resp, err := api.Chat(context.Background(), models.ChatRequest{
		Message:   args[0],
		SessionID: chatSession,
		Context:   chatContext,
	})
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	theme := DefaultTheme
	fmt.Println(theme.assistantStyle().Render(resp.Message))

	if len(resp.Suggestions) > 0 {
		fmt.Println()
		fmt.Println(theme.hintStyle().Render("You could ask:"))
		for _, suggestion := range resp.Suggestions {
			fmt.Println(theme.suggestionStyle().Render("  • " + suggestion))
		}
	}
	if len(resp.Actions) > 0 {
		fmt.Println()
		for _, action := range resp.Actions {
			fmt.Println(theme.actionStyle().Render(fmt.Sprintf("  [%s] %s → %s", action.Type, action.Label, action.Target)))
		}
	}

	if chatSession == "" {
		fmt.Println()
		fmt.Println(theme.hintStyle().Render("session: " + resp.SessionID))
	}
	return nil
}
