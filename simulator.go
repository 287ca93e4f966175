package steep

import "context"

// SimulationStats counts the lifecycle calls a Simulator has made.
type SimulationStats struct {
	InitCalls        int
	UpdateCalls      int
	ViewCalls        int
	CommandsReturned int
	QuitRequested    bool
}

// Simulator drives a Model step by step without a terminal. Messages are
// queued with Send and processed one at a time with Step, or in bulk with
// RunUntilEmpty and RunUntilQuit, which also execute the commands a step
// returns and feed their messages back into the queue. Every view is
// captured, so tests can assert on rendering without a Program.
type Simulator struct {
	model       Model
	ctx         context.Context
	queue       []Msg
	views       []string
	stats       SimulationStats
	initialized bool
}

// NewSimulator wraps a model for headless testing. The model is not
// initialized until Init or the first Step.
func NewSimulator(model Model) *Simulator {
	return &Simulator{model: model, ctx: context.Background()}
}

// Init calls the model's Init and captures the initial view. Calling it
// again is a no-op returning nil.
func (s *Simulator) Init() Cmd {
	if s.initialized {
		return nil
	}
	s.initialized = true
	s.stats.InitCalls++

	cmd := s.model.Init()
	if cmd != nil {
		s.stats.CommandsReturned++
	}

	s.stats.ViewCalls++
	s.views = append(s.views, s.model.View())
	return cmd
}

// Send queues a message for processing.
func (s *Simulator) Send(msg Msg) {
	s.queue = append(s.queue, msg)
}

// Step processes one queued message through Update and View, initializing
// the model first if needed. It returns the command Update returned, if
// any. A QuitMsg marks the simulation as quit without reaching Update.
func (s *Simulator) Step() Cmd {
	if !s.initialized {
		s.Init()
	}
	if len(s.queue) == 0 {
		return nil
	}

	msg := s.queue[0]
	s.queue = s.queue[1:]

	if _, ok := msg.(QuitMsg); ok {
		s.stats.QuitRequested = true
		return nil
	}

	s.stats.UpdateCalls++
	cmd := s.model.Update(msg)
	if cmd != nil {
		s.stats.CommandsReturned++
	}

	s.stats.ViewCalls++
	s.views = append(s.views, s.model.View())
	return cmd
}

// RunUntilEmpty processes messages until the queue drains or quit is
// requested, executing each returned command and queueing its message. It
// returns the number of steps taken.
func (s *Simulator) RunUntilEmpty() int {
	processed := 0
	for len(s.queue) > 0 && !s.stats.QuitRequested {
		s.exec(s.Step())
		processed++
	}
	return processed
}

// RunUntilQuit is RunUntilEmpty with a step cap, for models whose commands
// keep feeding the queue.
func (s *Simulator) RunUntilQuit(maxSteps int) int {
	steps := 0
	for steps < maxSteps && !s.stats.QuitRequested && len(s.queue) > 0 {
		s.exec(s.Step())
		steps++
	}
	return steps
}

// exec runs a command synchronously and queues whatever it produces. Batch
// and Sequence results are expanded in place, in order.
func (s *Simulator) exec(cmd Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd(s.ctx).(type) {
	case nil:
	case batchMsg:
		for _, c := range msg {
			s.exec(c)
		}
	case sequenceMsg:
		for _, c := range msg {
			s.exec(c)
		}
	default:
		s.queue = append(s.queue, msg)
	}
}

// Model returns the model under simulation.
func (s *Simulator) Model() Model {
	return s.model
}

// Stats returns the lifecycle counts so far.
func (s *Simulator) Stats() SimulationStats {
	return s.stats
}

// Views returns every view captured, oldest first.
func (s *Simulator) Views() []string {
	return s.views
}

// LastView returns the most recent view, or "" before Init.
func (s *Simulator) LastView() string {
	if len(s.views) == 0 {
		return ""
	}
	return s.views[len(s.views)-1]
}

// QuitRequested reports whether a QuitMsg has been processed.
func (s *Simulator) QuitRequested() bool {
	return s.stats.QuitRequested
}

// Initialized reports whether the model's Init has run.
func (s *Simulator) Initialized() bool {
	return s.initialized
}

// Pending returns the number of queued messages.
func (s *Simulator) Pending() int {
	return len(s.queue)
}
