package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

/*
Config is the configuration for the application.

Contains the configuration for the server, snapshot storage, and the
vector registry.
*/
type Config struct {
	Server   ServerConfig   `json:"server"`
	Storage  StorageConfig  `json:"storage"`
	Registry RegistryConfig `json:"registry"`
	LogLevel string         `json:"log_level"`
}

/*
ServerConfig is the configuration for the server.
*/
type ServerConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
}

/*
StorageConfig is the configuration for snapshot persistence.
*/
type StorageConfig struct {
	// path to the data directory
	DataPath string `json:"data_path"`
	// whether to persist registry snapshots
	SnapshotEnabled bool `json:"snapshot_enabled"`
	// interval between automatic snapshots [seconds]
	SnapshotInterval int `json:"snapshot_interval"`
}

/*
RegistryConfig is the configuration for the vector registry.
*/
type RegistryConfig struct {
	// maximum number of live vectors, 0 means unlimited
	MaxVectors int `json:"max_vectors"`
}

/*
Default config
*/
func DefaultConfig() *Config {
	return &Config{
		// server configuration
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		// snapshot configuration
		Storage: StorageConfig{
			DataPath:         "./data",
			SnapshotEnabled:  true,
			SnapshotInterval: 5,
		},
		// registry configuration
		Registry: RegistryConfig{
			MaxVectors: 0,
		},
		// logging configuration
		LogLevel: "warn",
	}
}

/*
LoadFromFile loads the configuration from a JSON file.
*/
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

/*
LoadFromEnv overlays the configuration with RENDERVEC_* environment
variables.
*/
func LoadFromEnv(config *Config) *Config {
	// Server config
	if host := os.Getenv("RENDERVEC_HOST"); host != "" {
		config.Server.Host = host
	}

	if portStr := os.Getenv("RENDERVEC_PORT"); portStr != "" {
		config.Server.Port = portStr
	}

	// Storage config
	if dataPath := os.Getenv("RENDERVEC_DATA_PATH"); dataPath != "" {
		config.Storage.DataPath = dataPath
	}

	if snapStr := os.Getenv("RENDERVEC_SNAPSHOT_ENABLED"); snapStr != "" {
		if snap, err := strconv.ParseBool(snapStr); err == nil {
			config.Storage.SnapshotEnabled = snap
		}
	}

	if intervalStr := os.Getenv("RENDERVEC_SNAPSHOT_INTERVAL"); intervalStr != "" {
		if interval, err := strconv.Atoi(intervalStr); err == nil {
			config.Storage.SnapshotInterval = interval
		}
	}

	// Registry config
	if maxStr := os.Getenv("RENDERVEC_MAX_VECTORS"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil {
			config.Registry.MaxVectors = max
		}
	}

	// Log level
	if level := os.Getenv("RENDERVEC_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	return config
}

/*
Validate checks if the configuration is valid
*/
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.Storage.SnapshotEnabled && c.Storage.SnapshotInterval <= 0 {
		return fmt.Errorf("invalid snapshot interval: %d", c.Storage.SnapshotInterval)
	}
	if c.Registry.MaxVectors < 0 {
		return fmt.Errorf("invalid max vectors: %d", c.Registry.MaxVectors)
	}
	return nil
}
