// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/queueworks/mqbridge/bridge"
)

// endpointConfig is the YAML shape of an endpoint file.
type endpointConfig struct {
	QueueManager string `yaml:"queue_manager"`
	Channel      string `yaml:"channel"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
}

func loadEndpointConfig(path string) (bridge.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("reading endpoint config: %w", err)
	}
	var cfg endpointConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return bridge.Config{}, fmt.Errorf("parsing endpoint config %s: %w", path, err)
	}
	return bridge.Config{
		QueueManager: cfg.QueueManager,
		Channel:      cfg.Channel,
		Host:         cfg.Host,
		Port:         cfg.Port,
		User:         cfg.User,
		Password:     cfg.Password,
	}, nil
}
