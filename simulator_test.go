package steep

import (
	"context"
	"fmt"
	"testing"
)

// adderModel sums int messages and counts its lifecycle calls.
type adderModel struct {
	value   int
	inits   int
	updates int
	views   int
	initCmd Cmd
}

func (m *adderModel) Init() Cmd {
	m.inits++
	return m.initCmd
}

func (m *adderModel) Update(msg Msg) Cmd {
	m.updates++
	if n, ok := msg.(int); ok {
		m.value += n
	}
	return nil
}

func (m *adderModel) View() string {
	m.views++
	return fmt.Sprintf("value: %d", m.value)
}

func TestSimulatorInitOnce(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)

	if m.inits != 0 {
		t.Fatalf("init ran before Init: %d", m.inits)
	}
	sim.Init()
	sim.Init()
	if m.inits != 1 {
		t.Errorf("inits = %d, want 1", m.inits)
	}
	if !sim.Initialized() {
		t.Error("Initialized() = false after Init")
	}
	if got := sim.LastView(); got != "value: 0" {
		t.Errorf("LastView() = %q, want %q", got, "value: 0")
	}
}

func TestSimulatorStepUpdatesAndRenders(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)
	sim.Init()

	sim.Send(5)
	sim.Send(3)
	sim.Step()
	sim.Step()

	if m.value != 8 {
		t.Errorf("value = %d, want 8", m.value)
	}
	stats := sim.Stats()
	if stats.InitCalls != 1 || stats.UpdateCalls != 2 || stats.ViewCalls != 3 {
		t.Errorf("stats = %+v, want 1 init, 2 updates, 3 views", stats)
	}
	if got := sim.LastView(); got != "value: 8" {
		t.Errorf("LastView() = %q, want %q", got, "value: 8")
	}
}

func TestSimulatorImplicitInit(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)

	sim.Send(1)
	sim.Step()

	if m.inits != 1 {
		t.Errorf("inits = %d, want 1", m.inits)
	}
	if m.value != 1 {
		t.Errorf("value = %d, want 1", m.value)
	}
}

func TestSimulatorQuitStopsProcessing(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)
	sim.Init()

	sim.Send(1)
	sim.Send(QuitMsg{})
	sim.Send(2)
	sim.RunUntilQuit(10)

	if !sim.QuitRequested() {
		t.Error("QuitRequested() = false after QuitMsg")
	}
	if m.value != 1 {
		t.Errorf("value = %d, want 1 (message after quit processed)", m.value)
	}
	if sim.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", sim.Pending())
	}
}

func TestSimulatorRunUntilEmpty(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)
	sim.Init()

	sim.Send(1)
	sim.Send(2)
	sim.Send(3)

	if processed := sim.RunUntilEmpty(); processed != 3 {
		t.Errorf("processed = %d, want 3", processed)
	}
	if m.value != 6 {
		t.Errorf("value = %d, want 6", m.value)
	}
}

func TestSimulatorExecutesCommands(t *testing.T) {
	m := &adderModel{initCmd: func(context.Context) Msg { return 7 }}
	sim := NewSimulator(m)

	sim.exec(sim.Init())
	sim.RunUntilEmpty()

	if m.value != 7 {
		t.Errorf("value = %d, want 7 (init command message not processed)", m.value)
	}
}

func TestSimulatorExpandsBatchCommands(t *testing.T) {
	m := &adderModel{}
	sim := NewSimulator(m)
	sim.Init()

	one := func(context.Context) Msg { return 1 }
	ten := func(context.Context) Msg { return 10 }
	sim.exec(Batch(one, ten, nil))
	sim.RunUntilEmpty()

	if m.value != 11 {
		t.Errorf("value = %d, want 11", m.value)
	}
}
