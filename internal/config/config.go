package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the per-user config, state and runtime directories
	AppName = "eshutdown"

	// FilePermissions is the default permission mode for files written by the daemon
	FilePermissions = 0600
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0700

	// DefaultControlMessage is the only message that raises the dialog
	DefaultControlMessage = "Power"
)

var (
	// ConfigDir is $XDG_CONFIG_HOME/eshutdown
	ConfigDir string

	// ConfigFile is the settings file
	ConfigFile string

	// KeybindsFile holds user key overrides
	KeybindsFile string

	// StateDir is $XDG_STATE_HOME/eshutdown
	StateDir string

	// DatabasePath is the SQLite history journal
	DatabasePath string

	// LogFile is the default daemon log
	LogFile string

	// SocketPath is the well-known IPC socket
	SocketPath string
)

// Initialize resolves the XDG locations and creates the config and state
// directories. A default config.yaml is written when none exists.
func Initialize() error {
	var err error

	if ConfigFile, err = xdg.ConfigFile(filepath.Join(AppName, "config.yaml")); err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}
	ConfigDir = filepath.Dir(ConfigFile)
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.jsonc")

	if DatabasePath, err = xdg.StateFile(filepath.Join(AppName, "history.db")); err != nil {
		return fmt.Errorf("failed to resolve state directory: %w", err)
	}
	StateDir = filepath.Dir(DatabasePath)
	LogFile = filepath.Join(StateDir, AppName+".log")

	// RuntimeFile falls back to the temp dir when XDG_RUNTIME_DIR is unset
	if SocketPath, err = xdg.RuntimeFile(filepath.Join(AppName, AppName+".sock")); err != nil {
		return fmt.Errorf("failed to resolve runtime directory: %w", err)
	}

	if _, err := os.Stat(ConfigFile); errors.Is(err, os.ErrNotExist) {
		if err := Default().Save(ConfigFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// Settings is the content of config.yaml
type Settings struct {
	SocketPath      string        `yaml:"socket_path,omitempty"`
	ControlMessage  string        `yaml:"control_message"`
	MaxMessageBytes int           `yaml:"max_message_bytes"`
	PowerMethod     string        `yaml:"power_method"`
	HistoryEnabled  bool          `yaml:"history_enabled"`
	FlushInterval   time.Duration `yaml:"flush_interval"`
	StartVisible    bool          `yaml:"start_visible"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file,omitempty"`
	Language        string        `yaml:"language,omitempty"`
}

// Default returns the settings used when config.yaml is absent
func Default() *Settings {
	return &Settings{
		ControlMessage:  DefaultControlMessage,
		MaxMessageBytes: 0,
		PowerMethod:     "auto",
		HistoryEnabled:  true,
		FlushInterval:   30 * time.Second,
		LogLevel:        "info",
	}
}

// Load reads settings from path on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to path as YAML
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that cannot be corrected silently
func (s *Settings) Validate() error {
	var errs []error
	if s.ControlMessage == "" {
		errs = append(errs, errors.New("control_message must not be empty"))
	}
	if s.MaxMessageBytes < 0 {
		errs = append(errs, fmt.Errorf("max_message_bytes must be >= 0, got %d", s.MaxMessageBytes))
	}
	if s.MaxMessageBytes > 0 && s.MaxMessageBytes < len(s.ControlMessage) {
		errs = append(errs, fmt.Errorf("max_message_bytes %d is smaller than the control message", s.MaxMessageBytes))
	}
	if s.FlushInterval < 0 {
		errs = append(errs, fmt.Errorf("flush_interval must be >= 0, got %s", s.FlushInterval))
	}
	return errors.Join(errs...)
}

// Socket returns the configured socket path or the well-known default
func (s *Settings) Socket() string {
	if s.SocketPath != "" {
		return s.SocketPath
	}
	return SocketPath
}

// Log returns the configured log file or the default under the state dir
func (s *Settings) Log() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	return LogFile
}
