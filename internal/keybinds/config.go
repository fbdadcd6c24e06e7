package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// FileName is the keybinding file looked up in the config directory
const FileName = "keybinds.jsonc"

// Config represents the user's keybinding configuration.
// Each section maps an action name to a comma-separated key list.
type Config struct {
	Version string                       `json:"version"`
	Default map[string]string            `json:"default,omitempty"`
	Custom  map[string]map[string]string `json:"custom,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSON or JSONC file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses JSON with comments and trailing commas
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", FileName, err)
	}
	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SplitKeys splits a comma-separated key list, dropping blanks
func SplitKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry.
// An action listed in the config loses its default keys in that context.
// Two actions claiming the same key in one context is an error.
func ApplyConfig(registry *Registry, config *Config) error {
	sections := map[Context]map[string]string{
		ContextDefault: config.Default,
	}
	for name, bindings := range config.Custom {
		if Context(name) == ContextDefault {
			return fmt.Errorf("custom context '%s' collides with the built-in section", name)
		}
		sections[Context(name)] = bindings
	}

	var errs []error
	for context, bindings := range sections {
		claimed := make(map[string]Action)

		actions := make([]string, 0, len(bindings))
		for a := range bindings {
			actions = append(actions, a)
		}
		sort.Strings(actions)

		for _, actionStr := range actions {
			if err := ValidateAction(actionStr); err != nil {
				errs = append(errs, fmt.Errorf("context '%s': %w", context, err))
				continue
			}
			action := Action(actionStr)
			registry.Unbind(context, action)

			for _, key := range SplitKeys(bindings[actionStr]) {
				if err := ValidateKey(key); err != nil {
					errs = append(errs, fmt.Errorf("context '%s', action '%s': %w", context, action, err))
					continue
				}
				if prev, ok := claimed[key]; ok && prev != action {
					errs = append(errs, &ValidationError{
						Type:    "conflict",
						Context: context,
						Key:     key,
						Message: fmt.Sprintf("bound to both %s and %s", prev, action),
					})
					continue
				}
				claimed[key] = action
				registry.Register(context, key, action)
			}
		}
	}

	return errors.Join(errs...)
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", FileName, err)
		}
		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportRegistry converts a registry back into the file format
func ExportRegistry(registry *Registry) *Config {
	config := &Config{Version: "1.0"}

	for _, context := range registry.Contexts() {
		section := make(map[string]string)
		byAction := make(map[Action][]string)
		for _, b := range registry.ListBindings(context) {
			byAction[b.Action] = append(byAction[b.Action], b.Key)
		}
		for action, keys := range byAction {
			section[string(action)] = strings.Join(keys, ",")
		}

		if context == ContextDefault {
			config.Default = section
			continue
		}
		if config.Custom == nil {
			config.Custom = make(map[string]map[string]string)
		}
		config.Custom[string(context)] = section
	}

	return config
}

// ExportDefaults exports default keybindings as a config file
func ExportDefaults() *Config {
	return ExportRegistry(NewDefaultRegistry())
}
