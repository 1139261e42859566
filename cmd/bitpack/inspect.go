package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/bitfield/schema"
	"github.com/wippyai/bitfield/specifier"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// Field colours in the bit map, cycled by field index.
	bitPalette = []lipgloss.Color{"#FFB86C", "#8BE9FD", "#50FA7B", "#FF79C6", "#F1FA8C", "#BD93F9"}
)

type inspectState int

const (
	stateBrowse inspectState = iota
	stateEdit
)

type inspectModel struct {
	err      error
	logger   *zap.Logger
	record   *schema.Record
	fields   []schema.FieldInfo
	owner    []int // bit index -> field index
	input    textinput.Model
	selected int
	state    inspectState
}

func newInspectModel(r *schema.Record, logger *zap.Logger) *inspectModel {
	fields := r.Type().Fields()
	owner := make([]int, r.Type().TotalBits())
	for i, f := range fields {
		for b := f.Offset; b < f.Offset+f.Bits; b++ {
			owner[b] = i
		}
	}

	ti := textinput.New()
	ti.Width = 40

	if logger == nil {
		logger = zap.NewNop()
	}
	return &inspectModel{
		logger: logger,
		record: r,
		fields: fields,
		owner:  owner,
		input:  ti,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateEdit {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateBrowse
			m.input.Blur()
			return m, nil
		case "enter":
			m.apply()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.fields)-1 {
			m.selected++
		}

	case "enter", "e":
		f := m.fields[m.selected]
		m.input.Prompt = f.Name + ": "
		m.input.Placeholder = m.placeholder(f)
		m.input.SetValue("")
		m.input.Focus()
		m.err = nil
		m.state = stateEdit

	case "r":
		m.record.Reset()
		m.err = nil
	}

	return m, nil
}

// apply parses the input into the selected field. On error the record keeps
// its previous value and the editor stays open.
func (m *inspectModel) apply() {
	f := m.fields[m.selected]
	text := strings.TrimSpace(m.input.Value())
	if err := m.record.Parse(f.Name, text); err != nil {
		m.err = err
		m.logger.Debug("field rejected", zap.String("field", f.Name), zap.String("value", text), zap.Error(err))
		return
	}
	m.logger.Debug("field set", zap.String("field", f.Name), zap.String("value", text))
	m.err = nil
	m.state = stateBrowse
	m.input.Blur()
}

func (m *inspectModel) placeholder(f schema.FieldInfo) string {
	if len(f.Variants) > 0 {
		return strings.Join(f.Variants, " | ")
	}
	if f.Kind == specifier.KindBool {
		return "true | false"
	}
	return fmt.Sprintf("0 .. 2^%d-1", f.Bits)
}

func (m *inspectModel) View() string {
	var b strings.Builder

	typ := m.record.Type()
	b.WriteString(titleStyle.Render("bitpack"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%s (%d bytes)", typ.Name(), typ.Size()))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		line := m.formatField(f)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.bitMap())
	b.WriteString("\n")
	b.WriteString("hex: " + hex.EncodeToString(m.record.Bytes()))
	b.WriteString("\n\n")

	if m.state == stateEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateEdit {
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • r reset • q quit"))
	}
	return b.String()
}

func (m *inspectModel) formatField(f schema.FieldInfo) string {
	value := "?"
	if v, err := m.record.Value(f.Name); err == nil {
		value = fmt.Sprint(v)
	} else if raw, err := m.record.Raw(f.Name); err == nil {
		value = fmt.Sprintf("<invalid %#x>", raw)
	}
	return fmt.Sprintf("%s = %s %s",
		nameStyle.Render(f.Name),
		value,
		kindStyle.Render(fmt.Sprintf("[%s %d @%d]", f.Kind, f.Bits, f.Offset)))
}

// bitMap renders each byte most significant bit first, coloured by the
// field that owns the bit. The selected field is underlined.
func (m *inspectModel) bitMap() string {
	data := m.record.Bytes()
	var b strings.Builder
	for i, by := range data {
		fmt.Fprintf(&b, "%3d  ", i)
		for bit := 7; bit >= 0; bit-- {
			idx := m.owner[i*8+bit]
			style := lipgloss.NewStyle().Foreground(bitPalette[idx%len(bitPalette)])
			if idx == m.selected {
				style = style.Underline(true).Bold(true)
			}
			b.WriteString(style.Render(string("01"[by>>bit&1])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runInspect(r *schema.Record, logger *zap.Logger) error {
	p := tea.NewProgram(newInspectModel(r, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
