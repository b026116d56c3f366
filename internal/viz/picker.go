package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Entry is one selectable item of a Picker.
type Entry struct {
	Name        string
	Description string
}

// Picker is a vertical menu. After the program exits, Choice holds the
// selected entry name, or "" if the user quit.
type Picker struct {
	title   string
	entries []Entry
	cursor  int
	choice  string
	styles  styles
}

func NewPicker(title string, entries []Entry) Picker {
	return Picker{
		title:   title,
		entries: entries,
		styles:  newStyles(ThemeCyberpunk),
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		p.choice = ""
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.entries) > 0 {
			p.choice = p.entries[p.cursor].Name
		}
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) View() string {
	st := p.styles
	var b strings.Builder
	b.WriteString(st.header.Render(p.title) + "\n")

	width := 0
	for _, e := range p.entries {
		width = max(width, lipgloss.Width(e.Name))
	}
	for i, e := range p.entries {
		line := fmt.Sprintf("%-*s  %s", width, e.Name, e.Description)
		if i == p.cursor {
			b.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	b.WriteString(st.help.Render("↑↓:Move Enter:Select Q:Quit"))
	return b.String()
}

func (p Picker) Choice() string { return p.choice }

// Pick runs the picker inline and returns the chosen name.
func Pick(title string, entries []Entry) (string, error) {
	final, err := tea.NewProgram(NewPicker(title, entries)).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Choice(), nil
}
