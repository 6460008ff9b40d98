package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/internal/version"
)

var (
	// Build variables set by ldflags
	buildVersion string
	buildCommit  string
	buildTime    string
)

func main() {
	a := &app{}
	rootCmd := newRootCmd(a)
	err := rootCmd.Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "porchconf",
		Short: "Porch timing calculator",
		Long: `porchconf computes display porch timing values (frame rate, adjusted
horizontal total and blanking, minimum HLINE, minimum lane rate) from panel
timing parameters and keeps named configurations in a porch conf text file.`,
		Version:       version.GetVersion(buildVersion, buildCommit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.fileFlag, "file", "f", "", "Porch conf file (default from config, then PorchConf.txt)")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.porchconf/porchconf.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(initCmd(a))
	rootCmd.AddCommand(calcCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(archiveCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(tuiCmd(a))

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion(buildVersion, buildCommit, buildTime))
		},
	}
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the porch conf file",
		Long:  "Create the porch conf file with its header line. An existing non-empty file is left alone.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.newStore()
			if err := st.Init(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Porch conf file ready: %s\n", st.Path())
			return nil
		},
	}
}
