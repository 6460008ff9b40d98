// Package report renders porch confs as HTML and PDF reports.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/mscrnt/porchconf/pkg/porch"
)

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	Landscape           bool
	PrintBackground     bool
	PreferCSSPageSize   bool
	PaperWidth          float64
	PaperHeight         float64
	MarginTop           float64
	MarginBottom        float64
	MarginLeft          float64
	MarginRight         float64
	HeaderTemplate      string
	FooterTemplate      string
	DisplayHeaderFooter bool
	Timeout             time.Duration
}

// DefaultPDFOptions returns default PDF options
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Landscape:           true,
		PrintBackground:     true,
		PreferCSSPageSize:   false,
		PaperWidth:          11.69, // A4 width in inches
		PaperHeight:         8.27,  // A4 height in inches
		MarginTop:           0.4,
		MarginBottom:        0.4,
		MarginLeft:          0.4,
		MarginRight:         0.4,
		DisplayHeaderFooter: false,
		Timeout:             30 * time.Second,
	}
}

// GeneratePDF renders the HTML report and prints it to outputPath with headless Chrome
func (g *Generator) GeneratePDF(ctx context.Context, source string, confs []porch.Conf, outputPath string, options *PDFOptions) error {
	html, err := g.GenerateHTML(source, confs)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "porchconf-report-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.WriteString(html); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	_ = tmpFile.Close()

	return htmlToPDF(ctx, tmpFile.Name(), outputPath, options)
}

// htmlToPDF converts an HTML file to PDF using chromedp
func htmlToPDF(parent context.Context, htmlPath, pdfPath string, options *PDFOptions) error {
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	var pdfData []byte
	if err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := page.PrintToPDF().
				WithLandscape(options.Landscape).
				WithPrintBackground(options.PrintBackground).
				WithPreferCSSPageSize(options.PreferCSSPageSize).
				WithPaperWidth(options.PaperWidth).
				WithPaperHeight(options.PaperHeight).
				WithMarginTop(options.MarginTop).
				WithMarginBottom(options.MarginBottom).
				WithMarginLeft(options.MarginLeft).
				WithMarginRight(options.MarginRight).
				WithDisplayHeaderFooter(options.DisplayHeaderFooter)

			if options.HeaderTemplate != "" {
				params = params.WithHeaderTemplate(options.HeaderTemplate)
			}
			if options.FooterTemplate != "" {
				params = params.WithFooterTemplate(options.FooterTemplate)
			}

			var err error
			pdfData, _, err = params.Do(ctx)
			return err
		}),
	); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}

	if err := os.WriteFile(pdfPath, pdfData, 0o600); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// QuickPDF generates a PDF with default options
func (g *Generator) QuickPDF(ctx context.Context, source string, confs []porch.Conf, outputPath string) error {
	options := DefaultPDFOptions()
	return g.GeneratePDF(ctx, source, confs, outputPath, &options)
}
