package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/config"
	"github.com/mscrnt/porchconf/pkg/db"
	"github.com/mscrnt/porchconf/pkg/logging"
	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/store"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// app carries the settings shared by every command
type app struct {
	fileFlag   string
	configPath string
	logLevel   string

	cfg       config.Config
	logCloser io.Closer
	logger    zerolog.Logger
}

// setup loads the config, applies flag overrides and starts logging
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.fileFlag != "" {
		cfg.File = a.fileFlag
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	closer, err := logging.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	a.logCloser = closer
	a.logger = logging.For("cli")
	a.logger.Debug().Str("command", cmd.CommandPath()).Str("file", cfg.File).Msg("starting")
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) newStore() *store.Store {
	return store.New(a.cfg.File, store.WithPrecision(a.cfg.Precision))
}

// loadStore opens and decodes the porch file. With allowMissing a file that
// does not exist yet gives an empty store.
func (a *app) loadStore(allowMissing bool) (*store.Store, error) {
	st := a.newStore()
	if allowMissing {
		if _, err := os.Stat(st.Path()); errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
	}
	if err := st.Load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) openArchive() (*db.DB, error) {
	path, err := a.cfg.ArchivePath()
	if err != nil {
		return nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return database, nil
}

// openOutput returns stdout when path is empty
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path) // #nosec G304 -- output path is chosen by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index: %s", s)
	}
	return i, nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func printField(w io.Writer, label string, v timing.Value) {
	value := mutedStyle.Render(v.String())
	if v.Valid() {
		value = valueStyle.Render(v.String())
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(padLabel(label)), value)
}

func padLabel(label string) string {
	const width = 40
	if w := lipgloss.Width(label); w < width {
		return label + strings.Repeat(" ", width-w)
	}
	return label
}

// printConf writes the detail view of one conf
func printConf(w io.Writer, index int, c porch.Conf) {
	if index >= 0 {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("#%d %s", index, c.Title())))
	} else {
		fmt.Fprintln(w, headingStyle.Render(c.Title()))
	}
	fmt.Fprintln(w, "input")
	for _, f := range timing.AllInputs {
		printField(w, f.Label(), c.Inputs.Get(f))
	}
	printOutputs(w, c.Mode, c.Outputs)
	if !c.Consistent() {
		fmt.Fprintln(w, warnStyle.Render("stored outputs differ from a fresh computation"))
	}
}

func printOutputs(w io.Writer, mode timing.Mode, out timing.Outputs) {
	fmt.Fprintln(w, "output")
	for _, f := range mode.Outputs() {
		printField(w, f.Label(), out.Get(f))
	}
}
