package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/siege/audio"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/render"
)

func newViewCmd(opts *options) *cobra.Command {
	var mute bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch the siege in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(*opts, true)
			if err != nil {
				return err
			}
			defer s.Close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer screen.Fini()

			// Restore the terminal before the crash report from any goroutine
			core.SetCrashHook(func(any) { screen.Fini() })

			snd := audio.NewService(s.cfg.Audio.Enabled && !mute, s.log)
			snd.Attach(s.world)
			defer snd.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.clock.Start(ctx)
			err = render.NewViewer(screen, s.world, s.log).Run(ctx)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "disable sound cues")
	return cmd
}
