package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"steep"
)

var (
	numberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

type model struct {
	remaining int
}

func (m *model) Init() steep.Cmd {
	return steep.Tick(time.Second, 0)
}

func (m *model) Update(msg steep.Msg) steep.Cmd {
	switch msg := msg.(type) {
	case steep.KeyMsg:
		switch {
		case msg.Type == steep.KeyCtrlC, msg.String() == "q":
			return steep.Quit
		}
	case steep.TickMsg:
		m.remaining--
		if m.remaining <= 0 {
			return steep.Quit
		}
		return steep.Tick(time.Second, 0)
	}
	return nil
}

func (m *model) View() string {
	return fmt.Sprintf("exiting in %s %s\n",
		numberStyle.Render(fmt.Sprintf("%d", m.remaining)),
		hintStyle.Render("(q to skip)"))
}

func main() {
	p := steep.NewProgram(&model{remaining: 5})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "countdown:", err)
		os.Exit(1)
	}
}
