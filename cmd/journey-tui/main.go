// journey-tui is an interactive explorer for a journey graph dataset. It
// loads the CSV dataset directly, no server needed, and runs the same
// retrievals the API serves: preset questions, free-text queries routed by
// intent, and the vector baseline for comparison.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/journeygraph/pkg/api"
	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/ingest"
	"github.com/dd0wney/journeygraph/pkg/logging"
	"github.com/dd0wney/journeygraph/pkg/naiverag"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	presetsView
	queryView
	contextView
)

const viewCount = 4

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Naive    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run query"),
	),
	Naive: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "vector baseline"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Naive, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter, k.Naive},
		{k.Up, k.Down, k.Quit},
	}
}

// presetItem adapts an api.Preset to the list component.
type presetItem struct {
	preset api.Preset
}

func (i presetItem) Title() string       { return i.preset.Name }
func (i presetItem) Description() string { return i.preset.Description }
func (i presetItem) FilterValue() string { return i.preset.Name }

type model struct {
	graph       *graph.Graph
	index       *naiverag.Index
	currentView view
	presetList  list.Model
	queryInput  textinput.Model
	contextPort viewport.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	lastIntent  string
	stats       graph.Stats
}

func initialModel(g *graph.Graph, idx *naiverag.Index) model {
	ti := textinput.New()
	ti.Placeholder = "why do users churn?"
	ti.CharLimit = 200
	ti.Width = 60

	items := make([]list.Item, 0, len(api.Presets))
	for _, p := range api.Presets {
		items = append(items, presetItem{preset: p})
	}
	presetList := list.New(items, list.NewDefaultDelegate(), 60, 14)
	presetList.Title = "Preset Queries"
	presetList.SetShowStatusBar(false)
	presetList.SetFilteringEnabled(false)

	port := viewport.New(80, 20)
	port.SetContent("Run a query to see retrieved context here.")

	return model{
		graph:       g,
		index:       idx,
		currentView: dashboardView,
		presetList:  presetList,
		queryInput:  ti,
		contextPort: port,
		help:        help.New(),
		keys:        keys,
		stats:       g.Stats(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.presetList.SetSize(msg.Width-8, msg.Height-12)
		m.contextPort.Width = msg.Width - 8
		m.contextPort.Height = msg.Height - 12

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == queryView && m.queryInput.Focused() && msg.String() == "q" {
				break
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + viewCount - 1) % viewCount)

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case queryView:
				m.runGraphQuery(m.queryInput.Value(), "")
			case presetsView:
				if item, ok := m.presetList.SelectedItem().(presetItem); ok {
					m.runGraphQuery(item.preset.Query, item.preset.Category)
				}
			}

		case key.Matches(msg, m.keys.Naive):
			query := m.queryInput.Value()
			if m.currentView == presetsView {
				if item, ok := m.presetList.SelectedItem().(presetItem); ok {
					query = item.preset.Query
				}
			}
			m.runNaiveQuery(query)
		}
	}

	switch m.currentView {
	case queryView:
		m.queryInput, cmd = m.queryInput.Update(msg)
		cmds = append(cmds, cmd)
	case presetsView:
		m.presetList, cmd = m.presetList.Update(msg)
		cmds = append(cmds, cmd)
	case contextView:
		m.contextPort, cmd = m.contextPort.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == queryView {
		m.queryInput.Focus()
	} else {
		m.queryInput.Blur()
	}
}

func (m *model) runGraphQuery(query, category string) {
	if query == "" {
		m.message = "Query cannot be empty"
		m.messageErr = true
		return
	}

	start := time.Now()
	context, intent := api.GraphContext(m.graph, query, category)
	elapsed := time.Since(start)

	m.lastIntent = intent
	m.contextPort.SetContent(context)
	m.contextPort.GotoTop()
	m.setView(contextView)
	m.message = fmt.Sprintf("Graph retrieval (%s) in %s", intent, elapsed.Round(time.Microsecond))
	m.messageErr = false
}

func (m *model) runNaiveQuery(query string) {
	if query == "" {
		m.message = "Query cannot be empty"
		m.messageErr = true
		return
	}

	start := time.Now()
	context := m.index.RetrieveContext(query, 10)
	elapsed := time.Since(start)

	m.lastIntent = "vector_baseline"
	m.contextPort.SetContent(context)
	m.contextPort.GotoTop()
	m.setView(contextView)
	m.message = fmt.Sprintf("Vector retrieval in %s", elapsed.Round(time.Microsecond))
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Journey Graph Explorer"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case presetsView:
		s.WriteString(contentStyle.Render(m.presetList.View()))
	case queryView:
		s.WriteString(m.renderQuery())
	case contextView:
		s.WriteString(m.renderContext())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("x " + m.message))
		} else {
			s.WriteString(successStyle.Render("+ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Presets", "Query", "Context"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	var nodes strings.Builder
	nodes.WriteString("Nodes\n")
	for _, kind := range []string{"User", "Session", "Event", "Product"} {
		nodes.WriteString(fmt.Sprintf("%-10s %d\n", kind, m.stats.NodesByKind[kind]))
	}
	nodes.WriteString(fmt.Sprintf("%-10s %d", "Total", m.stats.TotalNodes))

	var edges strings.Builder
	edges.WriteString("Edges\n")
	for _, typ := range []graph.EdgeType{graph.EdgeStarted, graph.EdgeContains, graph.EdgeNext, graph.EdgeInvolves} {
		edges.WriteString(fmt.Sprintf("%-10s %d\n", typ, m.stats.EdgesByType[typ]))
	}
	edges.WriteString(fmt.Sprintf("%-10s %d", "Total", m.stats.TotalEdges))

	index := fmt.Sprintf("Vector Index\nDocuments  %d", m.index.Len())

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(nodes.String()),
		statsBoxStyle.Render(edges.String()),
		statsBoxStyle.Render(index)))
}

func (m model) renderQuery() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Query Console"))
	s.WriteString("\n\n")
	s.WriteString("Ask a question about user journeys:\n\n")
	s.WriteString(m.queryInput.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Examples:\n"))
	s.WriteString(helpStyle.Render("  why do users churn?\n"))
	s.WriteString(helpStyle.Render("  how do high and low LTV users differ?\n"))
	s.WriteString(helpStyle.Render("  what do users view before purchase?\n"))

	return contentStyle.Render(s.String())
}

func (m model) renderContext() string {
	var s strings.Builder

	header := "Retrieved Context"
	if m.lastIntent != "" {
		header += " (" + m.lastIntent + ")"
	}
	s.WriteString(headerStyle.Render(header))
	s.WriteString("\n\n")
	s.WriteString(m.contextPort.View())

	return contentStyle.Render(s.String())
}

func main() {
	dataDir := flag.String("data", "./data", "Dataset directory")
	flag.Parse()

	discard := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)

	ds, err := ingest.LoadCSVDir(*dataDir)
	if err != nil {
		log.Fatalf("loading dataset: %v", err)
	}

	g, _, err := ingest.Build(ds, discard)
	if err != nil {
		log.Fatalf("building graph: %v", err)
	}

	idx := naiverag.NewIndex(naiverag.DefaultDimensions)
	idx.Build(ds)

	p := tea.NewProgram(initialModel(g, idx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("error running program: %v", err)
	}
}
