package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/mpvbridge/dispatch"
	"github.com/wippyai/mpvbridge/wasmgl"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type entryInfo struct {
	name    string
	goSig   string
	params  []string
	results []string
}

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
)

type interactiveModel struct {
	entries  []entryInfo
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &interactiveModel{filter: ti, state: stateBrowse}
	for _, n := range dispatch.Names() {
		e, _ := dispatch.Get(n)
		info := entryInfo{name: n, goSig: e.Type.String()}
		if params, results, err := wasmgl.ValueTypes(e.Type); err == nil {
			for _, p := range params {
				info.params = append(info.params, valueTypeName(p))
			}
			for _, r := range results {
				info.results = append(info.results, valueTypeName(r))
			}
		}
		m.entries = append(m.entries, info)
	}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateBrowse
			}
			return m, nil

		case "esc":
			switch {
			case m.state == stateDetail:
				m.state = stateBrowse
			case m.filter.Value() != "":
				m.filter.SetValue("")
				m.applyFilter()
			default:
				return m, tea.Quit
			}
			return m, nil

		case "q":
			if m.state == stateDetail {
				return m, tea.Quit
			}
		}
	}

	if m.state != stateBrowse {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GL Probe"))
	b.WriteString(fmt.Sprintf(" %d of %d entry points\n\n", len(m.visible), len(m.entries)))

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		start := 0
		if m.selected >= pageSize {
			start = m.selected - pageSize + 1
		}
		for i := start; i < len(m.visible) && i < start+pageSize; i++ {
			e := m.entries[m.visible[i]]
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.name))
			} else {
				b.WriteString("  " + funcStyle.Render(e.name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter details • esc clear/quit"))

	case stateDetail:
		e := m.entries[m.visible[m.selected]]
		b.WriteString(funcStyle.Render(e.name))
		b.WriteString("\n\n")
		b.WriteString("go:    " + typeStyle.Render(e.goSig) + "\n")
		wasm := "(" + strings.Join(e.params, ", ") + ")"
		if len(e.results) > 0 {
			wasm += " -> " + strings.Join(e.results, ", ")
		}
		b.WriteString("wasm:  " + typeStyle.Render(wasm) + "\n")
		b.WriteString("import: " + typeStyle.Render(wasmgl.DefaultModule+"."+e.name) + "\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func valueTypeName(t api.ValueType) string {
	return api.ValueTypeName(t)
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
