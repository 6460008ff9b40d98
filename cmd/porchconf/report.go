package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/report"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate porch conf reports",
		Long:  "Generate HTML and PDF reports of the porch conf file",
	}

	cmd.AddCommand(reportGenerateCmd(a))

	return cmd
}

func reportGenerateCmd(a *app) *cobra.Command {
	var (
		format    string
		output    string
		title     string
		landscape bool
		pageSize  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report",
		Long: `Generate an HTML or PDF report with one card per record.

Examples:
  # HTML report next to the porch conf file
  porchconf report generate

  # PDF report in portrait A4
  porchconf report generate --format pdf --landscape=false --page-size A4 --output panels.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "html" && format != "pdf" {
				return fmt.Errorf("format must be either 'html' or 'pdf'")
			}

			st, err := a.loadStore(false)
			if err != nil {
				return err
			}

			generator := report.NewGenerator(title)

			if output == "" {
				timestamp := time.Now().Format("20060102_150405")
				output = fmt.Sprintf("porchconf_report_%s.%s", timestamp, format)
			}

			switch format {
			case "html":
				html, err := generator.GenerateHTML(st.Path(), st.Records())
				if err != nil {
					return fmt.Errorf("failed to generate HTML report: %w", err)
				}
				if err := os.WriteFile(output, []byte(html), 0o600); err != nil {
					return fmt.Errorf("failed to write HTML file: %w", err)
				}

			case "pdf":
				options := report.DefaultPDFOptions()
				options.Landscape = landscape

				if pageSize != "" {
					width, height, err := paperSize(pageSize)
					if err != nil {
						return err
					}
					if landscape {
						width, height = height, width
					}
					options.PaperWidth = width
					options.PaperHeight = height
				}

				if err := generator.GeneratePDF(cmd.Context(), st.Path(), st.Records(), output, &options); err != nil {
					return fmt.Errorf("failed to generate PDF report: %w", err)
				}
			}

			a.logger.Info().Str("output", output).Int("records", st.Len()).Msg("report generated")
			fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "html", "Report format: html or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: porchconf_report_<time>.<format>)")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().BoolVar(&landscape, "landscape", true, "Landscape orientation (PDF only)")
	cmd.Flags().StringVar(&pageSize, "page-size", "", "Page size: A4, A3, Letter, Legal (PDF only)")

	return cmd
}

// paperSize returns portrait width and height in inches
func paperSize(name string) (float64, float64, error) {
	switch strings.ToUpper(name) {
	case "A4":
		return 8.27, 11.69, nil
	case "A3":
		return 11.69, 16.54, nil
	case "LETTER":
		return 8.5, 11.0, nil
	case "LEGAL":
		return 8.5, 14.0, nil
	}
	return 0, 0, fmt.Errorf("unsupported page size: %s", name)
}
