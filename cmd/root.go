package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/lam/internal/eval"
	"github.com/gnolang/lam/lam"
)

var (
	cfgFile  string
	timeout  time.Duration
	verbose  bool
	maxDepth int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "lam [paths...]",
	Short:            "lam - resolve and evaluate a small functional language",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", lam.DefaultConfigFile, "Configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Timeout for running files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, fmt.Sprintf("Override max_depth (1 to %d)", eval.MaxDepthLimit))

	// set here rather than in the literal: runCmd reaches rootCmd through
	// newEngine, which would make the two initializers depend on each other
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: lam [path1 path2 ...] => behaves like the run subcommand
		runCmd.Run(runCmd, args)
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newEngine loads the configuration file and applies command-line
// overrides on top of it.
func newEngine() (*lam.Engine, error) {
	config, err := lam.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	// the root command owns the flag, also when a subcommand parsed it
	if rootCmd.PersistentFlags().Changed("max-depth") {
		config.MaxDepth = maxDepth
	}
	if !config.Color {
		color.NoColor = true
	}
	logger.Debug("configuration loaded",
		zap.String("path", cfgFile),
		zap.Int("max_depth", config.MaxDepth),
		zap.Bool("cache", config.Cache.Enabled),
	)
	return lam.New(config, logger)
}
