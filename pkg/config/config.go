// Package config loads per-party process configuration from environment
// variables and an optional YAML file, in the declarative struct-with-tags
// idiom the engine's upstream upgrade tooling uses for its server/client
// configs, including a redacted Debug/String that never prints secret
// material.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PartyConfig is one party's process configuration: its own role,
// addresses for the other two parties, GPU device count, key-pair file
// paths, and an optional match-threshold override.
type PartyConfig struct {
	Role            uint8     `yaml:"role" env:"IRIS_MPC_ROLE"`
	PeerAddresses   [3]string `yaml:"peer_addresses" env:"-"`
	GPUDeviceCount  int       `yaml:"gpu_device_count" env:"IRIS_MPC_GPU_DEVICE_COUNT"`
	CurrentKeyPath  string    `yaml:"current_key_path" env:"IRIS_MPC_CURRENT_KEY_PATH"`
	PreviousKeyPath string    `yaml:"previous_key_path" env:"IRIS_MPC_PREVIOUS_KEY_PATH"`
	MatchThreshold  *float64  `yaml:"match_threshold_override" env:"IRIS_MPC_MATCH_THRESHOLD_OVERRIDE"`
}

// Load reads a PartyConfig from an optional YAML file, then overlays any
// environment variables that are set, environment taking precedence so a
// deployment can override a checked-in file without editing it.
func Load(path string) (PartyConfig, error) {
	var cfg PartyConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return PartyConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return PartyConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if err := cfg.overlayEnv(); err != nil {
		return PartyConfig{}, err
	}
	return cfg, nil
}

func (c *PartyConfig) overlayEnv() error {
	if v, ok := os.LookupEnv("IRIS_MPC_ROLE"); ok {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("config: IRIS_MPC_ROLE: %w", err)
		}
		c.Role = uint8(n)
	}
	if v, ok := os.LookupEnv("IRIS_MPC_GPU_DEVICE_COUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: IRIS_MPC_GPU_DEVICE_COUNT: %w", err)
		}
		c.GPUDeviceCount = n
	}
	if v, ok := os.LookupEnv("IRIS_MPC_CURRENT_KEY_PATH"); ok {
		c.CurrentKeyPath = v
	}
	if v, ok := os.LookupEnv("IRIS_MPC_PREVIOUS_KEY_PATH"); ok {
		c.PreviousKeyPath = v
	}
	if v, ok := os.LookupEnv("IRIS_MPC_MATCH_THRESHOLD_OVERRIDE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: IRIS_MPC_MATCH_THRESHOLD_OVERRIDE: %w", err)
		}
		c.MatchThreshold = &f
	}
	return nil
}

// String renders the config for logs, redacting key-pair file paths since
// their contents (not the paths themselves) are the secret, but the path
// is still withheld to avoid leaking filesystem layout in shared logs.
func (c PartyConfig) String() string {
	return fmt.Sprintf(
		"PartyConfig{Role: %d, PeerAddresses: %v, GPUDeviceCount: %d, CurrentKeyPath: <redacted>, PreviousKeyPath: <redacted>, MatchThreshold: %s}",
		c.Role, c.PeerAddresses, c.GPUDeviceCount, formatThreshold(c.MatchThreshold),
	)
}

func formatThreshold(t *float64) string {
	if t == nil {
		return "default"
	}
	return strconv.FormatFloat(*t, 'f', -1, 64)
}
