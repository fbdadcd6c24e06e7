package keybinds

import (
	"fmt"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys maps keys that should keep their action
	reservedKeys map[string]Action

	// required lists actions that must stay reachable in the dialog context
	required []Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuit,
		},
		required: []Action{ActionShutdown, ActionClose},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	v.checkKeys(registry, result)
	v.checkRequiredActions(registry, result)
	v.checkReservedKeys(registry, result)
	v.checkUnknownActions(registry, result)

	return result
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result := &ValidationResult{
			Errors:   []ValidationError{},
			Warnings: []ValidationError{},
		}
		for _, e := range splitErrors(err) {
			if ve, ok := e.(*ValidationError); ok {
				result.Errors = append(result.Errors, *ve)
				continue
			}
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Message: e.Error(),
			})
		}
		return result
	}

	return v.ValidateRegistry(registry)
}

// splitErrors unpacks an errors.Join result
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// checkKeys reports malformed key names
func (v *Validator) checkKeys(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		for _, b := range registry.ListBindings(context) {
			if err := ValidateKey(b.Key); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Key:     b.Key,
					Message: err.Error(),
				})
			}
		}
	}
}

// checkRequiredActions makes sure the dialog can always be answered
func (v *Validator) checkRequiredActions(registry *Registry, result *ValidationResult) {
	for _, action := range v.required {
		if len(registry.GetBinding(ContextDefault, action)) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Context: ContextDefault,
				Message: fmt.Sprintf("action %s has no key", action),
			})
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for key, want := range v.reservedKeys {
		action, ok := registry.Match(ContextDefault, key)
		if ok && action != want {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:    "warning",
				Context: ContextDefault,
				Key:     key,
				Message: fmt.Sprintf("reserved key rebound to %s (may cause issues)", action),
			})
		}
	}
}

// checkUnknownActions warns about bindings the dialog will ignore
func (v *Validator) checkUnknownActions(registry *Registry, result *ValidationResult) {
	for _, b := range registry.ListBindings(ContextDefault) {
		if !b.Action.IsKnown() {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:    "warning",
				Context: ContextDefault,
				Key:     b.Key,
				Message: fmt.Sprintf("unknown action %q is ignored", b.Action),
			})
		}
	}
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	var conflicts []string
	for _, err := range NewValidator().ValidateConfig(config).Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}
	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.TrimSpace(key) != key {
		return fmt.Errorf("key has surrounding whitespace: %q", key)
	}

	validModifiers := []string{"ctrl+", "alt+", "shift+", "super+"}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	return nil
}
