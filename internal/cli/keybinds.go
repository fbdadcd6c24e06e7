package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/studiowebux/eshutdown/internal/keybinds"
)

// ValidateKeybinds checks the keybinds file at path and prints the findings.
// A missing file validates the defaults.
func ValidateKeybinds(path string, out io.Writer) error {
	validator := keybinds.NewValidator()

	var result *keybinds.ValidationResult
	cfg, err := keybinds.LoadConfig(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(out, "%s not found, checking defaults\n", path)
		result = validator.ValidateRegistry(keybinds.NewDefaultRegistry())
	case err != nil:
		return err
	default:
		result = validator.ValidateConfig(cfg)
	}

	fmt.Fprintln(out, result.String())
	if result.HasErrors() {
		return fmt.Errorf("%s has %d error(s)", path, len(result.Errors))
	}
	return nil
}

// ExportKeybinds writes the effective keybindings (or the defaults) as JSON.
// An empty dest prints to out.
func ExportKeybinds(path, dest string, defaults bool, out io.Writer) error {
	var cfg *keybinds.Config
	if defaults {
		cfg = keybinds.ExportDefaults()
	} else {
		reg, err := keybinds.LoadOrDefault(path)
		if err != nil {
			return err
		}
		cfg = keybinds.ExportRegistry(reg)
	}

	if dest != "" {
		if err := keybinds.SaveConfig(cfg, dest); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		fmt.Fprintf(out, "Keybindings written to %s\n", dest)
		return nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
