package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type formField struct {
	label  string
	value  string
	secret bool
}

// form is a minimal multi-field text input driven by key names.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

func (f *form) value(i int) string {
	return f.fields[i].value
}

func (f *form) clear() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
}

// handleKey applies an editing key and reports whether it consumed it.
func (f *form) handleKey(key string) bool {
	switch key {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
	case "backspace":
		v := f.fields[f.focus].value
		if v != "" {
			f.fields[f.focus].value = v[:len(v)-1]
		}
	case "ctrl+l":
		f.clear()
	default:
		if len(key) != 1 {
			return false
		}
		f.fields[f.focus].value += key
	}
	return true
}

func (f *form) view() string {
	rows := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		style := InputStyle
		if i == f.focus {
			style = FocusedInputStyle
		}
		shown := field.value
		if field.secret {
			shown = strings.Repeat("•", len(field.value))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Left,
			LabelStyle.Render(field.label+":"),
			style.Width(50).Render(shown))
		rows = append(rows, center(row))
	}
	return strings.Join(rows, "\n\n") + "\n\n"
}
