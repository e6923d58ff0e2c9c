package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shopchat-ai/shopchat/config"
)

// chatCmd runs the assistant as a terminal conversation, no HTTP or accounts
// involved. Handy for trying out prompts and tool wiring.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFileArg(cmd))
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		mem := newMemoryStore(cfg, logger)
		assistant, err := newAssistant(cfg, mem, logger)
		if err != nil {
			return err
		}

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		fmt.Printf("Session %s. Type 'exit' to quit.\n", sessionID)

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			query := strings.TrimSpace(line)
			if query == "" {
				continue
			}
			if query == "exit" || query == "quit" {
				fmt.Println("Bye!")
				return nil
			}
			fmt.Println(assistant.ProcessQuery(cmd.Context(), query, sessionID))
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("session", "", "Session identifier (random when empty)")
}
