package glyph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the unified configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	// Fill defaults and validate
	if config.Precision == 0 {
		config.Precision = DefaultPrecision
	}
	if config.Precision < 1 {
		return nil, fmt.Errorf("precision must be positive, got %d", config.Precision)
	}
	if config.HTTPPort == 0 {
		config.HTTPPort = 8080
	}
	if config.SimplifyTolerance < 0 {
		return nil, fmt.Errorf("simplifyTolerance must not be negative, got %g", config.SimplifyTolerance)
	}
	if config.Weights != nil {
		w := config.Weights
		if w.Grid < 0 || w.Circle < 0 || w.Horizontal < 0 || w.Vertical < 0 {
			return nil, fmt.Errorf("weights must not be negative")
		}
	}
	if config.MQTT.Broker != "" {
		if config.MQTT.ClientID == "" {
			config.MQTT.ClientID = "inkmesh"
		}
		if config.MQTT.TopicPrefix == "" {
			config.MQTT.TopicPrefix = "inkmesh"
		}
		if config.MQTT.PublishPrefix == "" {
			config.MQTT.PublishPrefix = config.MQTT.TopicPrefix
		}
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
