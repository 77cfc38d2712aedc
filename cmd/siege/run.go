package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a fixed number of ticks headless and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ticks <= 0 {
				return fmt.Errorf("--ticks must be positive, got %d", ticks)
			}
			s, err := newSession(*opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			s.clock.RunTicks(ticks)
			s.summary(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 600, "number of ticks to simulate")
	return cmd
}
