package helpers

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/notecalc/internal/app"
	configapp "github.com/doeshing/notecalc/internal/application/config"
	"github.com/doeshing/notecalc/internal/domain"
	configinfra "github.com/doeshing/notecalc/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates and saves configuration with automatic backup
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := createBackupIfExists(loader); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	container.Config = cfg

	return nil
}

// createBackupIfExists creates a backup of the config file if it exists
func createBackupIfExists(loader *configinfra.FileLoader) error {
	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}
	return nil
}

// ConfigToMap converts the config into its YAML key tree.
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return tree, nil
}

// MapToConfig converts a YAML key tree back into a config.
func MapToConfig(tree map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return cfg, nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil || parsed == nil {
		return input
	}
	return parsed
}

// SetNestedMapValue replaces the value at a dotted key path. Only keys that
// already exist in the tree can be set, so typos are reported instead of
// silently adding unknown settings.
func SetNestedMapValue(root map[string]interface{}, keyPath string, value interface{}) error {
	keys := strings.Split(keyPath, ".")
	current := root
	for i, key := range keys {
		next, exists := current[key]
		if !exists {
			return fmt.Errorf("unknown configuration key %s", strings.Join(keys[:i+1], "."))
		}
		if i == len(keys)-1 {
			if _, isMap := next.(map[string]interface{}); isMap {
				return fmt.Errorf("%s is a section; set one of its keys instead", keyPath)
			}
			current[key] = value
			return nil
		}
		child, isMap := next.(map[string]interface{})
		if !isMap {
			return fmt.Errorf("%s is not a section", strings.Join(keys[:i+1], "."))
		}
		current = child
	}
	return fmt.Errorf("empty configuration key")
}

// TraverseNestedMap retrieves a value from a nested map using a dotted key path
// Returns the value and true if found, nil and false otherwise
func TraverseNestedMap(data interface{}, keyPath string) (interface{}, bool) {
	if keyPath == "" {
		return data, true
	}
	key, rest, _ := strings.Cut(keyPath, ".")

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[key]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, rest)
	default:
		return nil, false
	}
}
