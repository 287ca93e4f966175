// Full-screen mouse playground: move, click, scroll and paste to see how
// events are decoded.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"steep"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	width  int
	height int
	events []string
}

func (m *model) Init() steep.Cmd { return nil }

func (m *model) Update(msg steep.Msg) steep.Cmd {
	switch msg := msg.(type) {
	case steep.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case steep.MouseMsg:
		m.record(fmt.Sprintf("%s at (%d,%d)", msg, msg.X, msg.Y))
	case steep.KeyMsg:
		if msg.Type == steep.KeyCtrlC || msg.String() == "q" {
			return steep.Quit
		}
		m.record("key: " + msg.String())
	case steep.FocusMsg:
		m.record("focus gained")
	case steep.BlurMsg:
		m.record("focus lost")
	}
	return nil
}

func (m *model) record(s string) {
	m.events = append(m.events, s)
	if len(m.events) > 10 {
		m.events = m.events[len(m.events)-10:]
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("last events"))
	b.WriteString("\n")
	for _, e := range m.events {
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("q to quit"))
	return boxStyle.Render(b.String()) + "\n"
}

func main() {
	p := steep.NewProgram(&model{},
		steep.WithAltScreen(),
		steep.WithMouseAllMotion(),
		steep.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "mousetrap:", err)
		os.Exit(1)
	}
}
