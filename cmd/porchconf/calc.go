package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/session"
	"github.com/mscrnt/porchconf/pkg/timing"
)

func calcCmd(a *app) *cobra.Command {
	var (
		mode string
		name string
		save bool
	)
	values := make([]string, timing.NumInputs)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute porch outputs",
		Long: `Compute the porch outputs for a set of timing inputs. Outputs whose inputs
are missing are shown as "-". With --save every input must be given and the
record is appended to the porch conf file.

Examples:
  # DSC panel
  porchconf calc --txvid 234 --hactive 1080 --vactive 2400 --htotal 1180 \
    --vtotal 2550 --adj_vactive 2408 --adj_hactive 1080 --hfp 30 --hsync 10 --hbp 60

  # Only the adjusted horizontal total
  porchconf calc --vactive 2400 --htotal 1180 --adj_vactive 2408

  # Save as a NonDSC record
  porchconf calc --mode nondsc --name "720p scaled" --save ...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := timing.ParseMode(mode)
			if err != nil {
				return err
			}

			s := session.New(name, m)
			for i, f := range timing.AllInputs {
				s.SetInput(f, values[i])
			}
			if _, err := s.Inputs(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			c, _ := s.Conf()
			printConf(out, -1, c)

			if !save {
				return nil
			}
			if err := porch.ValidateName(name); err != nil {
				return err
			}
			saved, err := s.Save(a.newStore())
			if errors.Is(err, session.ErrIncomplete) {
				names := make([]string, 0, timing.NumInputs)
				for _, f := range s.Missing() {
					names = append(names, "--"+f.Name())
				}
				return fmt.Errorf("%w (missing %s)", err, strings.Join(names, ", "))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s to %s\n", saved.Title(), a.cfg.File)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "dsc", "Mode: dsc or nondsc")
	cmd.Flags().StringVarP(&name, "name", "n", porch.DefaultName, "Record name used with --save")
	cmd.Flags().BoolVar(&save, "save", false, "Append the record to the porch conf file")
	for i, f := range timing.AllInputs {
		cmd.Flags().StringVar(&values[i], f.Name(), "", f.Hint())
	}

	return cmd
}
