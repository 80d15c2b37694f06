package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aldenhollow/agentforest/internal/agent"
	"github.com/aldenhollow/agentforest/internal/forest"
	"github.com/aldenhollow/agentforest/pkg/models"
)

func buildForestCmd() *cobra.Command {
	var workerNames []string
	cmd := &cobra.Command{
		Use:   "forest <objective>",
		Short: "Run a collaborative task across a coordinator and worker agents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForest(cmd, args[0], workerNames)
		},
	}
	cmd.Flags().StringSliceVar(&workerNames, "workers", []string{"researcher", "writer"}, "worker agent ids available to the coordinator")
	return cmd
}

func runForest(cmd *cobra.Command, objective string, workerNames []string) error {
	recorder := newRecorder()
	f := forest.New(forest.Options{
		MaxIterations: loadMaxIterations(agent.DefaultRunOptions().MaxIterations),
		Recorder:      recorder,
	})

	coordinator := agent.New(agent.Config{
		ID:         "coordinator",
		Capability: echoCapability{agentID: "coordinator"},
		Recorder:   recorder,
	})
	f.AddAgent(coordinator)

	available := make([]models.AgentID, 0, len(workerNames))
	for _, name := range workerNames {
		worker := agent.New(agent.Config{
			ID:         models.AgentID(name),
			Capability: echoCapability{agentID: name},
			Recorder:   recorder,
		})
		f.AddAgent(worker)
		available = append(available, worker.ID())
	}

	answer, err := f.ExecuteCollaborativeTask(context.Background(), coordinator.ID(), objective, available)
	if err != nil {
		return fmt.Errorf("execute collaborative task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "objective: %s\n", objective)
	fmt.Fprintf(cmd.OutOrStdout(), "workers: %s\n", strings.Join(workerNames, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "result: %s\n", answer)
	return nil
}
