// Command siege runs the trebuchet siege simulation headless, in a terminal, or behind an HTTP server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "siege",
		Short:         "Trebuchet siege simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.seedSet = cmd.Flags().Changed("seed")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	pf.StringVarP(&opts.battlefield, "battlefield", "b", "", "battlefield YAML (embedded default when empty)")
	pf.Uint64Var(&opts.seed, "seed", 0, "random seed override")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newRunCmd(opts), newViewCmd(opts), newServeCmd(opts))
	return root
}
