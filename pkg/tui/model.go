// Package tui is the terminal porch calculator.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/session"
	"github.com/mscrnt/porchconf/pkg/timing"
)

type state int

const (
	editingState state = iota
	namingState
)

// tab is one open session and its text fields
type tab struct {
	session *session.Session
	inputs  []textinput.Model
}

// Model is the bubbletea model of the calculator
type Model struct {
	manager *session.Manager
	saver   session.Appender

	tabs   []*tab
	active int
	focus  int

	state     state
	nameInput textinput.Model
	newMode   timing.Mode

	status    string
	statusErr bool

	width  int
	height int
}

// New builds the calculator over manager. Saves go through saver. Sessions
// already open in manager get a tab each; when there are none a default
// DSC session is opened.
func New(manager *session.Manager, saver session.Appender) Model {
	name := textinput.New()
	name.Placeholder = porch.DefaultName
	name.CharLimit = 64
	name.Width = 32

	m := Model{
		manager:   manager,
		saver:     saver,
		nameInput: name,
		newMode:   timing.DSC,
	}

	for _, s := range manager.List() {
		m.tabs = append(m.tabs, newTab(s))
	}
	if len(m.tabs) == 0 {
		if s, err := manager.Open(porch.DefaultName, timing.DSC); err == nil {
			m.tabs = append(m.tabs, newTab(s))
		}
	}
	m.focusField(0)
	return m
}

func newTab(s *session.Session) *tab {
	t := &tab{session: s}
	for _, f := range timing.AllInputs {
		in := textinput.New()
		in.Placeholder = f.Hint()
		in.CharLimit = InputCharLimit
		in.Width = InputWidth
		in.Prompt = ""
		in.SetValue(s.Input(f))
		t.inputs = append(t.inputs, in)
	}
	return t
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) current() *tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m *Model) focusField(i int) {
	t := m.current()
	if t == nil {
		return
	}
	n := len(t.inputs)
	i = ((i % n) + n) % n
	for j := range t.inputs {
		t.inputs[j].Blur()
	}
	m.focus = i
	t.inputs[i].Focus()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case namingState:
			return m.updateNaming(msg)
		default:
			return m.updateEditing(msg)
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "ctrl+n":
		m.state = namingState
		m.newMode = timing.DSC
		m.nameInput.SetValue("")
		m.setStatus("", false)
		return m, m.nameInput.Focus()

	case "ctrl+s":
		m.save()
		return m, nil

	case "ctrl+w":
		m.closeCurrent()
		return m, nil

	case "pgdown":
		if len(m.tabs) > 0 {
			m.active = (m.active + 1) % len(m.tabs)
			m.focusField(0)
		}
		return m, nil

	case "pgup":
		if len(m.tabs) > 0 {
			m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
			m.focusField(0)
		}
		return m, nil

	case "tab", "down", "enter":
		m.focusField(m.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, nil
	}

	t := m.current()
	if t == nil {
		return m, nil
	}
	var cmd tea.Cmd
	t.inputs[m.focus], cmd = t.inputs[m.focus].Update(msg)
	t.session.SetInput(timing.AllInputs[m.focus], t.inputs[m.focus].Value())
	return m, cmd
}

func (m Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = editingState
		m.nameInput.Blur()
		return m, nil

	case "tab", "shift+tab":
		if m.newMode == timing.DSC {
			m.newMode = timing.NonDSC
		} else {
			m.newMode = timing.DSC
		}
		return m, nil

	case "enter":
		s, err := m.manager.Open(m.nameInput.Value(), m.newMode)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.tabs = append(m.tabs, newTab(s))
		m.active = len(m.tabs) - 1
		m.state = editingState
		m.nameInput.Blur()
		m.focusField(0)
		m.setStatus("opened "+s.Title(), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) save() {
	t := m.current()
	if t == nil {
		return
	}
	c, err := t.session.Save(m.saver)
	if err != nil {
		m.setStatus("not saved: "+err.Error(), true)
		return
	}
	m.setStatus("saved "+c.Title(), false)
}

func (m *Model) closeCurrent() {
	t := m.current()
	if t == nil {
		return
	}
	if err := m.manager.Close(t.session.ID); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	if m.active < 0 {
		m.active = 0
	}
	m.focusField(0)
	m.setStatus("closed "+t.session.Title(), false)
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Porch Calculator"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.state == namingState {
		b.WriteString(m.renderNaming())
	} else if t := m.current(); t != nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(m.renderInputs(t)),
			" ",
			panelStyle.Render(renderOutputs(t.session)),
		))
	} else {
		b.WriteString(unsetStyle.Render("No open sessions. Press ctrl+n to open one."))
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(okStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderTabs() string {
	if len(m.tabs) == 0 {
		return ""
	}
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		title := t.session.Title()
		if t.session.Saved() {
			title += " ✓"
		}
		if i == m.active {
			parts[i] = activeTabStyle.Render(title)
		} else {
			parts[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderInputs(t *tab) string {
	var b strings.Builder
	b.WriteString("input\n")
	for i, f := range timing.AllInputs {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(f.Label()))
		b.WriteString(t.inputs[i].View())
		if _, err := timing.ParseInput(t.inputs[i].Value()); err != nil {
			b.WriteString(errorStyle.Render(" !"))
		}
		if i < len(timing.AllInputs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderOutputs(s *session.Session) string {
	var b strings.Builder
	b.WriteString("output\n")
	out := s.Outputs()
	fields := s.Mode.Outputs()
	for i, f := range fields {
		v := out.Get(f)
		b.WriteString(f.Label())
		b.WriteString("\n  ")
		if v.Valid() {
			b.WriteString(valueStyle.Render(v.String()))
		} else {
			b.WriteString(unsetStyle.Render(v.String()))
		}
		if i < len(fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderNaming() string {
	return panelStyle.Render(fmt.Sprintf("New session\n\nName: %s\nMode: %s (tab to switch)",
		m.nameInput.View(), m.newMode))
}

func (m Model) help() string {
	if m.state == namingState {
		return "enter open • tab mode • esc cancel"
	}
	return "tab/shift+tab field • pgup/pgdown session • ctrl+s save • ctrl+n new • ctrl+w close • esc quit"
}

// Run starts the calculator on the terminal
func Run(manager *session.Manager, saver session.Appender) error {
	p := tea.NewProgram(New(manager, saver), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
