package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/eshutdown/internal/history"
	"github.com/studiowebux/eshutdown/internal/types"
)

// HistoryOptions contains options for the history command
type HistoryOptions struct {
	DatabasePath string
	Limit        int
	Clear        bool
	OutputFormat string // text, json, yaml
	Out          io.Writer
}

// History prints or clears the daemon journal
func History(opts HistoryOptions) error {
	j, err := history.Open(opts.DatabasePath)
	if err != nil {
		return err
	}
	defer j.Close()

	if opts.Clear {
		if err := j.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(opts.Out, "History cleared")
		return nil
	}

	entries, err := j.Load(opts.Limit)
	if err != nil {
		return err
	}

	out, err := formatHistory(entries, opts.OutputFormat)
	if err != nil {
		return err
	}
	_, err = io.WriteString(opts.Out, out)
	return err
}

func formatHistory(entries []types.HistoryEntry, format string) (string, error) {
	if entries == nil {
		entries = []types.HistoryEntry{}
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "":
		if len(entries) == 0 {
			return "No history\n", nil
		}
		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("%s  %s%-10s%s %s",
				e.Timestamp.Local().Format(time.DateTime),
				kindColor(e.Kind), e.Kind, colorReset,
				e.Detail))
			if e.Conn != "" {
				sb.WriteString(fmt.Sprintf(" [%s]", e.Conn))
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

func kindColor(kind types.EntryKind) string {
	switch kind {
	case types.KindSignal:
		return colorGreen
	case types.KindAction:
		return colorCyan
	case types.KindViolation:
		return colorRed
	case types.KindLifecycle:
		return colorYellow
	default:
		return ""
	}
}
