package main

import (
	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/db"
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export porch confs",
		Long:  "Export the records of the porch conf file in various formats",
	}

	cmd.AddCommand(exportFormatCmd(a, db.ExportFormatCSV, "CSV", `  # Export to file
  porchconf export csv --out panels.csv

  # Export to stdout
  porchconf export csv`))
	cmd.AddCommand(exportFormatCmd(a, db.ExportFormatJSON, "JSON", `  # Export to file
  porchconf export json --out panels.json`))

	return cmd
}

func exportFormatCmd(a *app, format db.ExportFormat, title, examples string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   string(format),
		Short: "Export records to " + title + " format",
		Long:  "Export the records of the porch conf file to " + title + " format.\n\nExamples:\n" + examples,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.loadStore(false)
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}

			switch format {
			case db.ExportFormatCSV:
				err = db.WriteCSV(w, st.Records())
			default:
				err = db.WriteJSON(w, st.Records())
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default: stdout)")

	return cmd
}
