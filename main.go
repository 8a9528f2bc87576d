//go:build !( js || wasm)

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cottand/variance/cmd"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "variance [subcommand]",
	Short:        "variance checks declaration-site and use-site variance of generic declarations",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.SubtypeCmd)
	rootCmd.AddCommand(cmd.CastCmd)
}
