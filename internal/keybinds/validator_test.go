package keybinds

import (
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	if v == nil {
		t.Fatal("NewValidator returned nil")
	}

	if v.reservedKeys["ctrl+c"] != ActionQuit {
		t.Error("Expected ctrl+c to be reserved for Quit")
	}

	if len(v.required) == 0 {
		t.Error("Expected required actions to be initialized")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "conflict error",
			err: ValidationError{
				Type:    "conflict",
				Context: ContextDefault,
				Key:     "c",
				Message: "bound to both Close and Shutdown",
			},
			expected: "[conflict] c in context 'default': bound to both Close and Shutdown",
		},
		{
			name: "invalid error",
			err: ValidationError{
				Type:    "invalid",
				Context: ContextDefault,
				Key:     "",
				Message: "empty key",
			},
			expected: "[invalid]  in context 'default': empty key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	empty := &ValidationResult{}
	if empty.String() != "No issues found" {
		t.Errorf("String() = %q, want %q", empty.String(), "No issues found")
	}

	r := &ValidationResult{
		Errors:   []ValidationError{{Type: "invalid", Context: ContextDefault, Message: "x"}},
		Warnings: []ValidationError{{Type: "warning", Context: ContextDefault, Key: "k", Message: "y"}},
	}
	out := r.String()
	if !strings.Contains(out, "Errors (1)") || !strings.Contains(out, "Warnings (1)") {
		t.Errorf("String() = %q, expected both sections", out)
	}
	if !r.HasErrors() || !r.HasWarnings() {
		t.Error("HasErrors/HasWarnings should be true")
	}
}

func TestValidator_DefaultsAreClean(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())

	if result.HasErrors() || result.HasWarnings() {
		t.Errorf("default registry should validate cleanly, got:\n%s", result.String())
	}
}

func TestValidator_MissingShutdown(t *testing.T) {
	r := NewDefaultRegistry()
	r.Unbind(ContextDefault, ActionShutdown)

	result := NewValidator().ValidateRegistry(r)
	if !result.HasErrors() {
		t.Fatal("expected an error when Shutdown has no key")
	}
	if !strings.Contains(result.Errors[0].Message, "Shutdown") {
		t.Errorf("error = %q, want mention of Shutdown", result.Errors[0].Message)
	}
}

func TestValidator_ReservedKeyRebound(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextDefault, "ctrl+c", ActionClose)

	result := NewValidator().ValidateRegistry(r)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %s", result.String())
	}
	if !result.HasWarnings() {
		t.Error("expected warning for rebinding ctrl+c")
	}
}

func TestValidator_UnknownActionWarns(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextDefault, "r", Action("Reboot"))

	result := NewValidator().ValidateRegistry(r)
	if result.HasErrors() {
		t.Fatalf("unknown actions must not be errors: %s", result.String())
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Key != "r" {
		t.Errorf("warnings = %+v, want one for key r", result.Warnings)
	}
}

func TestValidator_ValidateConfigConflict(t *testing.T) {
	cfg := &Config{
		Default: map[string]string{
			"Shutdown": "enter,x",
			"Close":    "x",
		},
	}

	result := NewValidator().ValidateConfig(cfg)
	if !result.HasErrors() {
		t.Fatal("expected conflict error")
	}
	if result.Errors[0].Type != "conflict" || result.Errors[0].Key != "x" {
		t.Errorf("error = %+v, want conflict on x", result.Errors[0])
	}

	conflicts := FindConflicts(cfg)
	if len(conflicts) != 1 {
		t.Errorf("FindConflicts() = %v, want 1 entry", conflicts)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"enter", false},
		{"c", false},
		{"ctrl+c", false},
		{"", true},
		{"ctrl+", true},
		{" c", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
