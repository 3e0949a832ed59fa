package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pratyush-06/Barista-Agent/internal/config"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dataDir    string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Voice agent personas with tool calling",
	Long: `agent hosts a family of conversational personas (tutor, barista, wellness,
sales, fraud alert, game master, shop, improv host). Each persona owns a small
session state that only changes through its tools, so the language model can
talk freely while the facts stay consistent.

Run "agent run <persona>" for a console session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			loaded.DataDir = dataDir
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		if err := logging.Initialize(loaded.LoggingOptions()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		logger = logging.L()
		logging.BootDebug("Configuration loaded from %s (data dir %s)", configPath, cfg.DataDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (overrides config)")

	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	showCmd.Flags().BoolVar(&plainMarkdown, "plain", false, "Print raw markdown instead of rendering it")

	personasCmd.AddCommand(showCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(usageCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
