package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/session"
	"github.com/mscrnt/porchconf/pkg/tui"
)

func watchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "List porch confs whenever the file changes",
		Long: `Watch the porch conf file and print the record list after every change.
Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = a.cfg.WatchDebounce
			}

			st, err := a.loadStore(true)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				st = a.newStore()
			}
			printList(cmd, st, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return st.Watch(ctx, debounce, func(err error) {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s changed at %s\n", st.Path(), time.Now().Format("15:04:05"))
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
				printList(cmd, st, nil)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before reloading (default from config)")

	return cmd
}

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive porch calculator",
		Long: `Open the terminal calculator. Each tab is a session with its own name and
mode; outputs update as you type and ctrl+s appends the session to the porch
conf file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(session.NewManager(), a.newStore())
		},
	}
}
