// Two spinners advancing at different rates. Each one tags its ticks with
// its own id and ignores the other's, so neither ever double-steps.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"steep"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	fastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	slowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	hintStyle = lipgloss.NewStyle().Faint(true)
)

const (
	fastID = 1
	slowID = 2

	fastInterval = 80 * time.Millisecond
	slowInterval = 300 * time.Millisecond
)

type model struct {
	fast int
	slow int
}

func (m *model) Init() steep.Cmd {
	return steep.Batch(
		steep.Tick(fastInterval, fastID),
		steep.Tick(slowInterval, slowID),
	)
}

func (m *model) Update(msg steep.Msg) steep.Cmd {
	switch msg := msg.(type) {
	case steep.KeyMsg:
		return steep.Quit
	case steep.TickMsg:
		switch msg.ID {
		case fastID:
			m.fast++
			return steep.Tick(fastInterval, fastID)
		case slowID:
			m.slow++
			return steep.Tick(slowInterval, slowID)
		}
	}
	return nil
}

func (m *model) View() string {
	return fmt.Sprintf("%s fast  %s slow  %s\n",
		fastStyle.Render(frames[m.fast%len(frames)]),
		slowStyle.Render(frames[m.slow%len(frames)]),
		hintStyle.Render("any key to quit"))
}

func main() {
	p := steep.NewProgram(&model{})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "spinners:", err)
		os.Exit(1)
	}
}
