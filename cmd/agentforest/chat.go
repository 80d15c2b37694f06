package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aldenhollow/agentforest/internal/agent"
)

func buildChatCmd() *cobra.Command {
	var systemPrompt string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat loop against a single agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, systemPrompt)
		},
	}
	cmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt to seed the agent with")
	return cmd
}

func runChat(cmd *cobra.Command, systemPrompt string) error {
	recorder := newRecorder()
	a := agent.New(agent.Config{
		ID:            "cli",
		SystemPrompt:  systemPrompt,
		Capability:    echoCapability{agentID: "cli"},
		MaxIterations: loadMaxIterations(agent.DefaultRunOptions().MaxIterations),
		Recorder:      recorder,
	})

	fmt.Fprintln(cmd.OutOrStdout(), "agentforest chat (Ctrl-D to quit)")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, err := a.Chat(context.Background(), line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
	}
	return scanner.Err()
}
