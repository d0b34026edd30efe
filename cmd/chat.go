package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the learning assistant a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		showHistory, _ := cmd.Flags().GetBool("history")
		if !showHistory && len(args) == 0 {
			return errors.New("a message is required (or pass --history)")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			userID, err = st.PrefRepo().Get(ctx, store.PrefUserID, "")
			if err != nil {
				return fmt.Errorf("read stored user: %w", err)
			}
		}
		if userID == "" {
			return errors.New("no user yet: take the quiz first or pass --user")
		}

		client := api.New(cfg.API.BaseURL, cfg.API.Timeout)

		if showHistory {
			turns, err := client.ChatHistory(ctx, userID)
			if err != nil {
				return fmt.Errorf("fetch chat history: %w", err)
			}
			if len(turns) == 0 {
				fmt.Fprintln(out, "No conversations yet.")
				return nil
			}
			for _, t := range turns {
				fmt.Fprintf(out, "[%s]\n> %s\n%s\n\n", t.Timestamp, t.UserMessage, t.BotResponse)
			}
			return nil
		}

		reply, err := client.Chat(ctx, userID, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		fmt.Fprintln(out, reply.Response)
		return nil
	},
}

func init() {
	chatCmd.Flags().String("user", "", "User id to chat as (default: the last quiz user)")
	chatCmd.Flags().Bool("history", false, "Show the conversation history instead of sending a message")
}
