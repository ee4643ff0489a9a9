package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/chatstream/internal/render"
	"github.com/user/chatstream/internal/types"
)

var conversationApp string

func init() {
	rootCmd.AddCommand(conversationCmd)
	conversationCmd.PersistentFlags().StringVar(&conversationApp, "app", "", "stored app to query (defaults to the configured backend)")
	conversationCmd.AddCommand(conversationListCmd, conversationHistoryCmd)
}

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Inspect backend conversations",
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		backend, err := newBackend(cfg, conversationApp)
		if err != nil {
			return err
		}

		infos, err := backend.Conversations(context.Background())
		if err != nil {
			return fmt.Errorf("list conversations: %w", err)
		}
		if len(infos) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\n", info.ID, info.Name)
		}
		return w.Flush()
	},
}

var conversationHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the message history of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		backend, err := newBackend(cfg, conversationApp)
		if err != nil {
			return err
		}

		records, err := backend.History(context.Background(), types.ConversationID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No messages.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("you: %s\n", rec.Query)
			fmt.Printf("assistant: %s\n", render.NormalizeAnswer(rec.Answer))
		}
		return nil
	},
}
