package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vios-project/vios/internal/biostool"
	"github.com/vios-project/vios/internal/sysinfo"
	"github.com/vios-project/vios/internal/template"
)

var (
	// persistent flags
	cfgFile          string
	enableDebugMode  bool
	truncateDebugLog bool
)

var rootCmd = &cobra.Command{
	Use:   "vios",
	Short: "BIOS golden template capture, compare and apply",
	Long: `Vios captures the current BIOS settings of a Supermicro or Intel system,
compares them against the project's golden template, and can configure the
system from a template. Without a subcommand it prints the gathered system
information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.Context())
	},
}

var setupLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
	Timestamp().
	Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.vios.yaml)")
	rootCmd.PersistentFlags().BoolVar(&enableDebugMode, "debug", false,
		"Enable debug mode, which will print additional information to the debug.log file")
	rootCmd.PersistentFlags().BoolVar(&truncateDebugLog, "truncate-debug", false,
		"Truncate the debug.log file on startup, if it exists")

	mustBind("debug",
		viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))
	mustBind("truncate-debug",
		viper.BindPFlag("truncate-debug", rootCmd.PersistentFlags().Lookup("truncate-debug")))

	viper.SetDefault("template.base-url",
		"http://jarvis.wpanderson.com/production_automation/SUM_BIOS_configs")
	viper.SetDefault("template.upload-url",
		"http://jarvis.wpanderson.com/production_automation/bios_settings_writer.py")
	viper.SetDefault("history.file", "")
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func mustBind(name string, err error) {
	if err != nil {
		setupLog.Fatal().Err(err).Msgf("Cannot bind flag '%s'", name)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vios")
	}

	viper.SetEnvPrefix("VIOS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		setupLog.Info().Msgf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// setupDebugLogger points the global logger at debug.log, or silences it.
// The returned closer is non-nil when a log file was opened.
func setupDebugLogger() (func(), error) {
	if !enableDebugMode {
		// by default we shouldn't log anything as this would break the TUI
		log.Logger = zerolog.Nop()
		return func() {}, nil
	}

	fileMode := os.O_CREATE | os.O_WRONLY
	if truncateDebugLog {
		fileMode |= os.O_TRUNC
	} else {
		fileMode |= os.O_APPEND
	}
	logFile, err := os.OpenFile("debug.log", fileMode, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening debug log file: %w", err)
	}
	log.Logger = zerolog.New(logFile).With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.DebugLevel)
	return func() {
		if closeErr := logFile.Close(); closeErr != nil {
			setupLog.Error().Err(closeErr).Msg("Error closing debug log file")
		}
	}, nil
}

// gatherSystem runs the inventory tools and resolves the vendor tool and
// workspace directory used by every subcommand.
func gatherSystem(ctx context.Context) (*sysinfo.Info, biostool.Tool, *biostool.Workspace, error) {
	runner := &sysinfo.ExecRunner{}

	info, err := sysinfo.Gather(ctx, runner)
	if err != nil {
		return nil, nil, nil, err
	}

	tool, err := biostool.ForBoard(info.Board, runner)
	if err != nil {
		return nil, nil, nil, err
	}

	workspace, err := biostool.DefaultWorkspace()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := workspace.Ensure(); err != nil {
		return nil, nil, nil, fmt.Errorf("preparing %s: %w", workspace.Dir, err)
	}
	return info, tool, workspace, nil
}

func newTemplateClient() *template.Client {
	return template.NewClient(
		viper.GetString("template.base-url"),
		viper.GetString("template.upload-url"),
	)
}

// historyFile resolves the capture history database location, defaulting to
// a file next to the workspace.
func historyFile() (string, error) {
	if f := viper.GetString("history.file"); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "bios_settings", "history.bb"), nil
}
