package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/chatstream/internal/render"
	"github.com/user/chatstream/internal/session"
	"github.com/user/chatstream/internal/types"
	"github.com/user/chatstream/internal/usage"
)

var (
	chatApp          string
	chatConversation string
	chatLabel        string
	chatInputs       []string
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatApp, "app", "", "stored app to chat with (defaults to the configured backend)")
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "", "resume an existing conversation by id")
	chatCmd.Flags().StringVar(&chatLabel, "label", "", "label for a new conversation")
	chatCmd.Flags().StringArrayVar(&chatInputs, "input", nil, "session variable as name=value (repeatable)")
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	backend, err := newBackend(cfg, chatApp)
	if err != nil {
		return err
	}
	sess := session.New(backend)

	estimator, err := usage.NewEstimator(cfg.Tokenizer.Encoding)
	if err != nil {
		return fmt.Errorf("create token estimator: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sess.LoadConversations(ctx); err != nil {
		return err
	}

	if chatConversation != "" {
		if err := sess.Switch(ctx, types.ConversationID(chatConversation)); err != nil {
			return err
		}
	} else {
		if _, err := sess.NewConversation(ctx, chatLabel); err != nil {
			return err
		}
	}

	for _, pair := range chatInputs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --input %q, expected name=value", pair)
		}
		sess.SetInput(name, value)
	}

	if fields := sess.RequiredInputs(); len(fields) > 0 {
		for _, f := range fields {
			marker := ""
			if f.Required {
				marker = " (required)"
			}
			fmt.Printf("input %s%s: %q\n", f.Variable, marker, sess.Input(f.Variable))
		}
	}

	printTurns(sess.Messages())

	fmt.Println("Type a message, /quit to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			fmt.Print("> ")
			continue
		case line == "/quit" || line == "/exit":
			return nil
		}

		_, err := sess.Send(ctx, line, func(delta string) {
			fmt.Print(delta)
		})
		fmt.Println()
		switch {
		case err == nil:
			fmt.Printf("[%s, ~%d tokens]\n", sess.Active(), estimator.EstimateLog(sess.Messages()))
		case errors.Is(err, context.Canceled):
			fmt.Println("aborted")
			return nil
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

// printTurns replays already loaded turns, history first.
func printTurns(turns []*types.Turn) {
	for _, turn := range turns {
		prefix := "you"
		if turn.Role == types.RoleAssistant {
			prefix = "assistant"
		}
		fmt.Printf("%s: %s\n", prefix, render.NormalizeAnswer(turn.Content))
	}
}
