package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/studiowebux/eshutdown/internal/cli"
	"github.com/studiowebux/eshutdown/internal/config"
	"github.com/studiowebux/eshutdown/internal/history"
	"github.com/studiowebux/eshutdown/internal/i18n"
	"github.com/studiowebux/eshutdown/internal/keybinds"
	"github.com/studiowebux/eshutdown/internal/logging"
	"github.com/studiowebux/eshutdown/internal/power"
	"github.com/studiowebux/eshutdown/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eshutdown",
	Short: "Power-off confirmation dialog daemon",
	Long: `eshutdown waits in the background for a "Power" signal on its local socket
and then shows a power-off confirmation dialog.

Examples:
  eshutdown                       # Start the daemon (dialog hidden)
  eshutdown --show                # Start with the dialog visible
  eshutdown signal                # Ask the running daemon to show the dialog
  eshutdown history -n 20         # Show the last 20 journal entries
  eshutdown keybinds validate     # Check keybinds.jsonc`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

var signalCmd = &cobra.Command{
	Use:   "signal [message]",
	Short: "Send a message to the running daemon",
	Long: `Send a message to the running daemon. Without an argument the control
message from config.yaml (default "Power") is sent, which raises the dialog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSignal,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the event journal",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage dialog keybindings",
}

var keybindsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a keybinds.jsonc file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		path := config.KeybindsFile
		if len(args) > 0 {
			path = args[0]
		}
		return cli.ValidateKeybinds(path, cmd.OutOrStdout())
	},
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the effective keybindings as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.ExportKeybinds(config.KeybindsFile, flagExportOutput, flagExportDefaults, cmd.OutOrStdout())
	},
}

// Flags for the daemon
var (
	flagConfig      string
	flagSocket      string
	flagPowerMethod string
	flagLogLevel    string
	flagLogFile     string
	flagLanguage    string
	flagShow        bool
	flagNoHistory   bool
)

// Flags for subcommands
var (
	flagChunkSize      int
	flagQuiet          bool
	flagHistoryLimit   int
	flagHistoryClear   bool
	flagHistoryOutput  string
	flagExportDefaults bool
	flagExportOutput   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/eshutdown/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "Socket path (default $XDG_RUNTIME_DIR/eshutdown/eshutdown.sock)")

	rootCmd.Flags().StringVar(&flagPowerMethod, "power-method", "", "Power-off method (auto/logind/command/dry-run)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", `Log file, "-" for stderr`)
	rootCmd.Flags().StringVar(&flagLanguage, "lang", "", "Dialog language (default from LC_ALL/LC_MESSAGES/LANG)")
	rootCmd.Flags().BoolVar(&flagShow, "show", false, "Show the dialog on start")
	rootCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not journal events")

	signalCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "Split the message into writes of this size")
	signalCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Print nothing on success")

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 50, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all entries")
	historyCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "text", "Output format (text/json/yaml)")

	keybindsExportCmd.Flags().BoolVar(&flagExportDefaults, "defaults", false, "Export the built-in defaults")
	keybindsExportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to a file instead of stdout")

	keybindsCmd.AddCommand(keybindsValidateCmd)
	keybindsCmd.AddCommand(keybindsExportCmd)
	rootCmd.AddCommand(signalCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keybindsCmd)
}

// loadSettings initializes paths, reads config.yaml and applies the
// persistent flags
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	path := config.ConfigFile
	if flagConfig != "" {
		path = flagConfig
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("socket") {
		settings.SocketPath = flagSocket
	}
	return settings, nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	applyDaemonFlags(cmd.Flags(), settings)

	logOut, err := logging.Setup(settings.LogLevel, settings.Log())
	if err != nil {
		return err
	}
	defer logOut.Close()
	log.WithField("version", version).Info("eshutdown starting")

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	result := keybinds.NewValidator().ValidateRegistry(registry)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}
	for _, w := range result.Warnings {
		log.Warn(w.Error())
	}

	sw, err := power.New(settings.PowerMethod)
	if err != nil {
		return err
	}

	var journal tui.Journal
	if settings.HistoryEnabled {
		j, err := history.Open(config.DatabasePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.WithError(err).Warn("error closing history database")
			}
		}()
		if err := j.Begin(); err != nil {
			log.WithError(err).Warn("history session not recorded")
		}
		journal = j
	}

	printer := i18n.FromEnv()
	if settings.Language != "" {
		printer = i18n.New(settings.Language)
	}

	return tui.Run(cmd.Context(), tui.RunConfig{
		SocketPath:      settings.Socket(),
		ControlMessage:  settings.ControlMessage,
		MaxMessageBytes: settings.MaxMessageBytes,
		Keybinds:        registry,
		Switch:          sw,
		Journal:         journal,
		LogOutput:       logOut,
		Printer:         printer,
		FlushInterval:   settings.FlushInterval,
		StartVisible:    settings.StartVisible,
	})
}

// applyDaemonFlags overrides config.yaml values with flags set on the command line
func applyDaemonFlags(flags *pflag.FlagSet, settings *config.Settings) {
	if flags.Changed("power-method") {
		settings.PowerMethod = flagPowerMethod
	}
	if flags.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}
	if flags.Changed("log-file") {
		settings.LogFile = flagLogFile
	}
	if flags.Changed("lang") {
		settings.Language = flagLanguage
	}
	if flagShow {
		settings.StartVisible = true
	}
	if flagNoHistory {
		settings.HistoryEnabled = false
	}
}

func runSignal(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logging.Discard()

	msg := settings.ControlMessage
	if len(args) > 0 {
		msg = args[0]
	}

	return cli.Signal(cmd.Context(), cli.SignalOptions{
		SocketPath: settings.Socket(),
		Message:    msg,
		ChunkSize:  flagChunkSize,
		Quiet:      flagQuiet,
		Out:        cmd.OutOrStdout(),
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	logging.Discard()

	return cli.History(cli.HistoryOptions{
		DatabasePath: config.DatabasePath,
		Limit:        flagHistoryLimit,
		Clear:        flagHistoryClear,
		OutputFormat: flagHistoryOutput,
		Out:          cmd.OutOrStdout(),
	})
}
