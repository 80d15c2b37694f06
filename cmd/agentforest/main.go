// Package main provides the CLI entry point for agentforest.
//
// agentforest wires the agent/forest/vector library together for
// local experimentation. It does not implement an LLM transport: its
// chat and forest subcommands run against a built-in echo capability,
// wired in chat.go and forest.go; a real LLMCapability has to be
// plugged in there.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aldenhollow/agentforest/internal/metrics"
)

var configPath string

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentforest",
		Short: "Run an agentforest agent or forest locally",
		Long: "agentforest drives the agent/forest/vector library from the command line, " +
			"using a built-in echo LLMCapability for local smoke-testing.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (optional)")
	root.AddCommand(buildChatCmd(), buildForestCmd())
	return root
}

func newRecorder() *metrics.Recorder {
	return metrics.NewRecorder(prometheus.NewRegistry())
}

func loadMaxIterations(fallback int) int {
	if configPath == "" {
		return fallback
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Warn("failed to load config, using default max_iterations", "error", err)
		return fallback
	}
	return cfg.MaxIterations
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
