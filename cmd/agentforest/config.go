package main

import "github.com/aldenhollow/agentforest/internal/config"

func loadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}
