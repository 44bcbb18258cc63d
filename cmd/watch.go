package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/lam/lam"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-evaluate files whenever they change",
	Long: `Watches the given files and directories and re-evaluates a .lam file
each time it is written. Runs until interrupted; --timeout does not apply.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		err = engine.Watch(ctx, args, func(out lam.Output) {
			printOutput(os.Stdout, out, true)
		})
		if err != nil {
			logger.Error("Watch failed", zap.Error(err))
			os.Exit(lam.ClassUsage.ExitCode())
		}
		fmt.Println()
	},
}
