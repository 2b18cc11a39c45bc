package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldSpec struct {
	label       string
	placeholder string
	secret      bool
}

// form is a small vertical stack of text inputs with one focused field.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(title string, fields ...fieldSpec) form {
	f := form{title: title}
	for i, spec := range fields {
		input := textinput.New()
		input.Placeholder = spec.placeholder
		input.CharLimit = 256
		if spec.secret {
			input.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			input.Focus()
		}
		f.labels = append(f.labels, spec.label)
		f.inputs = append(f.inputs, input)
	}
	return f
}

func (f *form) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

func (f *form) SetValues(values ...string) {
	for i, value := range values {
		if i < len(f.inputs) {
			f.inputs[i].SetValue(value)
		}
	}
}

func (f *form) Values() []string {
	values := make([]string, len(f.inputs))
	for i := range f.inputs {
		values[i] = f.inputs[i].Value()
	}
	return values
}

func (f *form) Next() {
	f.move(1)
}

func (f *form) Prev() {
	f.move(-1)
}

func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) OnLastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true)
	formLabelStyle = lipgloss.NewStyle().Faint(true).Width(14)
)

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i := range f.inputs {
		b.WriteString(formLabelStyle.Render(f.labels[i]))
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}
