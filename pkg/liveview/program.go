package liveview

import (
	tea "github.com/charmbracelet/bubbletea"
)

// repaintMsg asks the program to re-render the current frame.
type repaintMsg struct{}

// frameModel is the bubbletea model for a View. It carries no state of its
// own; every render re-reads the view's row list.
type frameModel struct {
	view *View
}

// Init implements tea.Model.
func (m frameModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m frameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case repaintMsg:
		// Nothing to update; View re-renders from the row list.
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m frameModel) View() string {
	return m.view.Frame()
}

// program wraps the running tea.Program and its completion signal.
type program struct {
	p    *tea.Program
	done chan struct{}
}

func (p *program) repaint() {
	p.p.Send(repaintMsg{})
}

func (p *program) println(s string) {
	p.p.Println(s)
}

// Start begins drawing to the terminal. The draw loop runs on its own
// goroutine until Stop is called. Starting a started view is a no-op.
func (v *View) Start() {
	v.mu.Lock()
	if v.prog != nil {
		v.mu.Unlock()
		return
	}
	p := tea.NewProgram(
		frameModel{view: v},
		tea.WithOutput(v.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithFPS(int(v.drawHz)),
	)
	prog := &program{p: p, done: make(chan struct{})}
	v.prog = prog
	v.mu.Unlock()

	go func() {
		defer close(prog.done)
		_, _ = p.Run()
	}()
}

// Stop quits the draw loop and waits for it to exit. The final frame is
// left on the terminal.
func (v *View) Stop() {
	v.mu.Lock()
	prog := v.prog
	v.prog = nil
	v.mu.Unlock()

	if prog == nil {
		return
	}
	prog.p.Quit()
	<-prog.done
}
