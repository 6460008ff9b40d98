package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// ReportData contains all data needed for report generation
type ReportData struct {
	Title       string
	Source      string
	GeneratedAt time.Time
	Cards       []ConfCard
	DSCCount    int
	NonDSCCount int
}

// ConfCard is one record as shown in the report
type ConfCard struct {
	Index      int
	Title      string
	Mode       string
	Consistent bool
	Inputs     []FieldDisplay
	Outputs    []FieldDisplay
}

// FieldDisplay represents a value for display
type FieldDisplay struct {
	Name  string
	Label string
	Value string
	Set   bool
}

// Generator creates reports from porch confs
type Generator struct {
	title string
}

// NewGenerator creates a new report generator
func NewGenerator(title string) *Generator {
	if title == "" {
		title = "Porch Configuration Report"
	}
	return &Generator{
		title: title,
	}
}

// GenerateHTML generates an HTML report with one card per conf
func (g *Generator) GenerateHTML(source string, confs []porch.Conf) (string, error) {
	data := g.buildReportData(source, confs)

	tmpl, err := g.loadHTMLTemplate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (g *Generator) buildReportData(source string, confs []porch.Conf) *ReportData {
	data := &ReportData{
		Title:       g.title,
		Source:      source,
		GeneratedAt: time.Now(),
	}

	for i, c := range confs {
		if c.Mode == timing.DSC {
			data.DSCCount++
		} else {
			data.NonDSCCount++
		}

		card := ConfCard{
			Index:      i,
			Title:      c.Title(),
			Mode:       c.Mode.String(),
			Consistent: c.Consistent(),
		}
		for _, f := range timing.AllInputs {
			v := c.Inputs.Get(f)
			card.Inputs = append(card.Inputs, FieldDisplay{
				Name: f.Name(), Label: f.Label(), Value: v.String(), Set: v.Valid(),
			})
		}
		for _, f := range c.Mode.Outputs() {
			v := c.Outputs.Get(f)
			card.Outputs = append(card.Outputs, FieldDisplay{
				Name: f.Name(), Label: f.Label(), Value: v.String(), Set: v.Valid(),
			})
		}
		data.Cards = append(data.Cards, card)
	}

	return data
}

// loadHTMLTemplate loads the HTML report template
func (g *Generator) loadHTMLTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"modeClass": func(mode string) string {
			if mode == timing.DSC.String() {
				return "dsc"
			}
			return "nondsc"
		},
	}

	tmpl := template.New("report").Funcs(funcMap)
	tmpl, err := tmpl.Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl, nil
}

// htmlTemplate is the default HTML report template
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.5;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            padding: 30px;
        }
        h1, h2, h3 {
            color: #2c3e50;
        }
        .header {
            border-bottom: 3px solid #3B82F6;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(420px, 1fr));
            gap: 20px;
        }
        .card {
            background-color: #f8f9fa;
            padding: 15px;
            border-radius: 4px;
            border-left: 4px solid #3B82F6;
            page-break-inside: avoid;
        }
        .card.nondsc {
            border-left-color: #10B981;
        }
        .card h2 {
            margin: 0 0 10px 0;
            font-size: 1.1em;
        }
        .mode {
            display: inline-block;
            padding: 2px 10px;
            border-radius: 4px;
            font-size: 0.8em;
            font-weight: bold;
            color: white;
            background-color: #3B82F6;
        }
        .nondsc .mode {
            background-color: #10B981;
        }
        .stale {
            color: #C00;
            font-size: 0.8em;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 10px;
        }
        th, td {
            padding: 4px 8px;
            text-align: left;
            border-bottom: 1px solid #e0e0e0;
        }
        th {
            color: #666;
            font-weight: 600;
        }
        td.value {
            font-family: monospace;
            text-align: right;
        }
        td.unset {
            color: #aaa;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e0e0e0;
            text-align: center;
            color: #666;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Source: {{.Source}} | Records: {{len .Cards}} (DSC {{.DSCCount}}, NonDSC {{.NonDSCCount}})</p>
        </div>

        {{if not .Cards}}
        <p>No porch configurations.</p>
        {{end}}

        <div class="cards">
            {{range .Cards}}
            <div class="card {{modeClass .Mode}}">
                <h2>#{{.Index}} {{.Title}} <span class="mode">{{.Mode}}</span></h2>
                {{if not .Consistent}}<p class="stale">Stored outputs differ from a fresh computation</p>{{end}}
                <table>
                    <tr><th colspan="2">Input</th></tr>
                    {{range .Inputs}}
                    <tr>
                        <td>{{.Label}}</td>
                        <td class="value{{if not .Set}} unset{{end}}">{{.Value}}</td>
                    </tr>
                    {{end}}
                </table>
                <table>
                    <tr><th colspan="2">Output</th></tr>
                    {{range .Outputs}}
                    <tr>
                        <td>{{.Label}}</td>
                        <td class="value{{if not .Set}} unset{{end}}">{{.Value}}</td>
                    </tr>
                    {{end}}
                </table>
            </div>
            {{end}}
        </div>

        <div class="footer">
            <p>Generated by porchconf on {{formatTime .GeneratedAt}}</p>
        </div>
    </div>
</body>
</html>
`
