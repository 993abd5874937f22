package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lsapi/internal/inspect"
	"lsapi/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type model struct {
	viewport   viewport.Model
	renderer   *render.Renderer
	pattern    string
	root       *inspect.Node
	lastUpdate time.Time
	ready      bool
}

type updateMsg struct {
	root  *inspect.Node
	built time.Time
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.viewport.Width = msg.Width - h
		m.viewport.Height = msg.Height - v - 3
		if !m.ready {
			m.ready = true
			m.viewport.SetContent(m.renderTree())
		}
	case updateMsg:
		m.root = msg.root
		m.lastUpdate = msg.built
		m.viewport.SetContent(m.renderTree())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d names | q to quit",
		m.lastUpdate.Format("15:04:05"), m.nodeCount()))

	header := fmt.Sprintf("%s\n%s\n", titleStyle("lsapi: "+m.pattern), status)
	return docStyle.Render(header + "\n" + m.viewport.View())
}

func (m model) renderTree() string {
	if m.root == nil {
		return "loading..."
	}
	var buf bytes.Buffer
	m.renderer.Render(&buf, m.root)
	return buf.String()
}

func (m model) nodeCount() int {
	if m.root == nil {
		return 0
	}
	return m.root.Count()
}

func initialModel(renderer *render.Renderer, pattern string, root *inspect.Node) model {
	return model{
		viewport:   viewport.New(0, 0),
		renderer:   renderer,
		pattern:    pattern,
		root:       root,
		lastUpdate: time.Now(),
	}
}

// RunUI blocks in the terminal UI until the user quits. Watch-mode rebuilds
// stream in through updateMsg.
func (a *App) RunUI(root *inspect.Node) error {
	p := tea.NewProgram(
		initialModel(a.Renderer, a.Pattern, root),
		tea.WithAltScreen(),
	)
	a.teaProgram = p
	defer func() { a.teaProgram = nil }()

	_, err := p.Run()
	return err
}
