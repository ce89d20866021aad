package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradecoach/internal/coach"
	"tradecoach/internal/config"
	"tradecoach/internal/logging"
	"tradecoach/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-02-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	LLM    coach.LLMClient
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dbPath := filepath.Join(config.DefaultConfigDir(), "tradecoach.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, import history and journal unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	// Initialize LLM client if the coach is enabled and a key is available
	if cfg.CoachAvailable() {
		app.LLM = coach.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Coach.Model)
		logger.Debug().Str("model", cfg.Coach.Model).Msg("OpenAI coach client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradecoach",
		Short: "TradeCoach - behavioral trading analysis CLI",
		Long: `TradeCoach analyzes your trade history for harmful behavioral patterns.

It computes summary statistics from an imported CSV, detects overtrading,
loss aversion and revenge trading with transparent evidence, scores your
overall behavioral risk, and suggests coaching steps. All detection is
deterministic; an optional LLM only rephrases the computed findings.

Use 'tradecoach help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradecoach)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newSampleCmd(app))
	rootCmd.AddCommand(newCoachCmd(app))
	rootCmd.AddCommand(newBrokeragesCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TradeCoach v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Import Configuration")
	output.Printf("  Allow Legacy:    %v\n", cfg.Import.AllowLegacy)
	output.Printf("  Data Dir:        %s\n", cfg.Import.DataDir)
	output.Println()

	output.Bold("Coach Configuration")
	output.Printf("  Enabled:         %v\n", cfg.Coach.Enabled)
	output.Printf("  Model:           %s\n", cfg.Coach.Model)
	output.Printf("  Timeout:         %ds\n", cfg.Coach.TimeoutSeconds)
	output.Printf("  Key configured:  %v\n", cfg.Credentials.OpenAI.APIKey != "")
	output.Println()

	output.Bold("Brokerage Fee Overrides")
	if len(cfg.Brokerages) == 0 {
		output.Dim("  none")
		return nil
	}
	for name, o := range cfg.Brokerages {
		output.Printf("  %s:", name)
		if o.PerTrade != nil {
			output.Printf(" per_trade=%.2f", *o.PerTrade)
		}
		if o.MonthlyFee != nil {
			output.Printf(" monthly_fee=%.2f", *o.MonthlyFee)
		}
		output.Println()
	}
	return nil
}
