package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

func reportConfs() []porch.Conf {
	var in timing.Inputs
	values := []float32{234, 1080, 2400, 1180, 2550, 2408, 1080, 30, 10, 60}
	for i, f := range timing.AllInputs {
		in.Set(f, timing.Some(values[i]))
	}
	stale := porch.NewWithInputs("stale <panel>", timing.NonDSC, in)
	stale.Outputs.Set(timing.FPS, timing.Some(1))
	return []porch.Conf{
		porch.NewWithInputs("panel A", timing.DSC, in),
		stale,
	}
}

func TestGenerateHTML(t *testing.T) {
	g := NewGenerator("")
	html, err := g.GenerateHTML("PorchConf.txt", reportConfs())
	require.NoError(t, err)

	assert.Contains(t, html, "Porch Configuration Report")
	assert.Contains(t, html, "panel A | DSC")
	assert.Contains(t, html, "stale &lt;panel&gt; | NonDSC", "names are escaped")
	assert.Contains(t, html, "Records: 2 (DSC 1, NonDSC 1)")
	assert.Contains(t, html, "77.7819")
	assert.Equal(t, 1, strings.Count(html, "Stored outputs differ"))
	// DSC-only rows are rendered once, for the DSC card
	assert.Equal(t, 1, strings.Count(html, "<td>hblank - 40</td>"))
	assert.Equal(t, 1, strings.Count(html, "<td>adj_hblank - 40</td>"))
}

func TestGenerateHTMLEmpty(t *testing.T) {
	html, err := NewGenerator("Empty").GenerateHTML("none.txt", nil)
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Empty</title>")
	assert.Contains(t, html, "No porch configurations.")
}

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.True(t, opts.PrintBackground)
	assert.Greater(t, opts.Timeout.Seconds(), 0.0)
}
