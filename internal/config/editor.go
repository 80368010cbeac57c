package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Keys returns every configurable key in sorted order
func Keys() []string {
	settings := Settings(DefaultConfig())
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SaveConfig writes the full configuration to path. The format follows the
// file extension (yaml, yml, json or toml).
func SaveConfig(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	v := viper.New()
	for key, value := range Settings(config) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// SetValue updates a single key in the config file at path and returns the
// resulting configuration. The file is left untouched when the result would
// not validate.
func SetValue(path, key, value string) (*Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))

	defaults := Settings(DefaultConfig())
	current, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key '%s'", key)
	}

	parsed, err := parseValue(current, value)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}

	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	v.Set(key, parsed)

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := SaveConfig(config, path); err != nil {
		return nil, err
	}
	return config, nil
}

// Reset overwrites the config file at path with the default configuration
func Reset(path string) error {
	return SaveConfig(DefaultConfig(), path)
}

// parseValue converts a command-line value to the type of the key's default
func parseValue(like any, value string) (any, error) {
	switch like.(type) {
	case int:
		return strconv.Atoi(strings.TrimSpace(value))
	case bool:
		return strconv.ParseBool(strings.TrimSpace(value))
	case []string:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}
