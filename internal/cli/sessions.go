package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List your conversation sessions",
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	sessions, err := api.Sessions(context.Background())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Start one with: advisor chat \"...\"")
		return nil
	}

	theme := DefaultTheme
	for _, s := range sessions {
		title := "New Conversation"
		if s.Title != nil {
			title = *s.Title
		}
		fmt.Printf("%s  %s\n", s.ID, title)
		fmt.Println(theme.hintStyle().Render(
			fmt.Sprintf("    %d messages, last activity %s", s.MessageCount, s.LastActivityAt)))
	}
	return nil
}
