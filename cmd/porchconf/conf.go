package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/store"
	"github.com/mscrnt/porchconf/pkg/timing"
)

func listCmd(a *app) *cobra.Command {
	var listMode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List porch confs",
		Long: `List the records of the porch conf file in file order.

Examples:
  # List all records
  porchconf list

  # List only DSC records
  porchconf list --mode dsc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *timing.Mode
			if listMode != "" {
				m, err := timing.ParseMode(listMode)
				if err != nil {
					return err
				}
				filter = &m
			}

			st, err := a.loadStore(true)
			if err != nil {
				return err
			}
			printList(cmd, st, filter)
			return nil
		},
	}

	cmd.Flags().StringVarP(&listMode, "mode", "m", "", "Only show records of this mode (dsc, nondsc)")

	return cmd
}

func printList(cmd *cobra.Command, st *store.Store, filter *timing.Mode) {
	out := cmd.OutOrStdout()
	if st.Len() == 0 {
		fmt.Fprintf(out, "No porch confs in %s\n", st.Path())
		return
	}

	fmt.Fprintf(out, "%-6s %-30s %-8s %-12s %-10s\n", "Index", "Name", "Mode", "FPS", "Lane Rate")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for i, c := range st.Records() {
		if filter != nil && c.Mode != *filter {
			continue
		}
		fmt.Fprintf(out, "%-6d %-30s %-8s %-12s %-10s\n",
			i, c.Name, c.Mode,
			c.Outputs.Get(timing.FPS).String(),
			c.Outputs.Get(timing.MinimumLaneRate).String(),
		)
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [index]",
		Short: "Show one porch conf",
		Long: `Show the inputs and outputs of the record at a position.

Examples:
  porchconf show 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			st, err := a.loadStore(false)
			if err != nil {
				return err
			}
			c, err := st.At(i)
			if err != nil {
				return err
			}
			printConf(cmd.OutOrStdout(), i, c)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [index]",
		Short: "Delete a porch conf",
		Long: `Delete the record at a position and rewrite the porch conf file.

Examples:
  # Ask before deleting
  porchconf delete 2

  # Skip the confirmation
  porchconf delete 2 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			st, err := a.loadStore(false)
			if err != nil {
				return err
			}
			c, err := st.At(i)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Delete #%d %s? [y/N] ", i, c.Title())
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			if err := st.Delete(c.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted #%d %s (%d left)\n", i, c.Title(), st.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}
