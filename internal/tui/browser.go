// internal/tui/browser.go
// Package tui provides the interactive results browser. It walks persisted
// evaluation results by model, then by case, down to a per-case detail view.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/runner"
)

// browserState represents the current screen of the results browser.
type browserState int

const (
	// browserViewModels is the state where the user selects a model.
	browserViewModels browserState = iota
	// browserViewCases is the state where the user selects a case result.
	browserViewCases
	// browserViewDetail is the state showing one case result in full.
	browserViewDetail
)

// browserModel is the main application model for the results browser.
type browserModel struct {
	resultsDir    string
	state         browserState
	isLoading     bool
	err           error
	modelList     list.Model
	caseList      list.Model
	viewport      viewport.Model
	spinner       spinner.Model
	byModel       map[string][]cases.CaseResult
	models        []string
	selectedModel string
	width, height int
	startTime     time.Time
}

// modelItem is a selectable model entry.
type modelItem struct {
	name  string
	count int
}

// Title returns the model name.
func (i modelItem) Title() string { return i.name }

// Description summarizes how many results the model has.
func (i modelItem) Description() string {
	return fmt.Sprintf("%d case results", i.count)
}

// FilterValue returns the model name, used for filtering.
func (i modelItem) FilterValue() string { return i.name }

// caseItem is a selectable case result entry.
type caseItem struct {
	result cases.CaseResult
}

// Title returns the case identifier.
func (i caseItem) Title() string { return i.result.CaseID }

// Description shows the family and a one-word verdict.
func (i caseItem) Description() string {
	return fmt.Sprintf("%s: %s", i.result.Family, verdict(i.result))
}

// FilterValue returns the case identifier, used for filtering.
func (i caseItem) FilterValue() string { return i.result.CaseID }

// resultsReadyMsg is sent when persisted results have been loaded.
type resultsReadyMsg struct {
	byModel map[string][]cases.CaseResult
	models  []string
}

// resultsLoadErr is sent when results could not be loaded.
type resultsLoadErr struct{ error }

// loadResultsCmd creates a Bubble Tea command that reads every results file
// under the given directory.
func loadResultsCmd(resultsDir string) tea.Cmd {
	return func() tea.Msg {
		byModel, models, err := runner.LoadResults(resultsDir)
		if err != nil {
			return resultsLoadErr{error: err}
		}
		if len(models) == 0 {
			return resultsLoadErr{error: fmt.Errorf("no results found in %s", resultsDir)}
		}
		return resultsReadyMsg{byModel: byModel, models: models}
	}
}

// newBrowserModel creates and initializes a browser model.
func newBrowserModel(resultsDir string) *browserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	modelList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	modelList.Title = "Select a Model"

	return &browserModel{
		resultsDir: resultsDir,
		state:      browserViewModels,
		isLoading:  true,
		spinner:    s,
		modelList:  modelList,
		caseList:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		viewport:   viewport.New(100, 5),
		startTime:  time.Now(),
	}
}

// Init starts the spinner and kicks off the results load.
func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadResultsCmd(m.resultsDir))
}

// Update is the central update function for the results browser.
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			switch m.state {
			case browserViewDetail:
				m.state = browserViewCases
				return m, nil
			case browserViewCases:
				m.state = browserViewModels
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.modelList.SetSize(msg.Width-2, msg.Height-4)
		m.caseList.SetSize(msg.Width-2, msg.Height-4)
		headerHeight := 3
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case resultsReadyMsg:
		m.isLoading = false
		m.byModel = msg.byModel
		m.models = msg.models
		items := make([]list.Item, len(msg.models))
		for i, name := range msg.models {
			items[i] = modelItem{name: name, count: len(msg.byModel[name])}
		}
		m.modelList.SetItems(items)
		return m, nil

	case resultsLoadErr:
		m.isLoading = false
		m.err = msg.error
		return m, nil
	}

	switch m.state {
	case browserViewModels:
		m.modelList, cmd = m.modelList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.modelList.SelectedItem().(modelItem); ok {
				m.selectedModel = selected.name
				results := m.byModel[m.selectedModel]
				items := make([]list.Item, len(results))
				for i, result := range results {
					items[i] = caseItem{result: result}
				}
				m.caseList.SetItems(items)
				m.caseList.Title = fmt.Sprintf("Results for %s", m.selectedModel)
				m.caseList.Select(0)
				m.state = browserViewCases
			}
		}

	case browserViewCases:
		m.caseList, cmd = m.caseList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.caseList.SelectedItem().(caseItem); ok {
				m.viewport.SetContent(renderDetail(selected.result, m.detailWidth()))
				m.viewport.GotoTop()
				m.state = browserViewDetail
			}
		}

	case browserViewDetail:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// detailWidth returns the wrap width for the detail view.
func (m *browserModel) detailWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return 76
}

// View renders the browser UI based on the current state.
func (m *browserModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.startTime).Seconds())
		return fmt.Sprintf("\n  %s Loading results... %ss\n", m.spinner.View(), timer)
	}

	switch m.state {
	case browserViewModels:
		return lipgloss.NewStyle().Margin(1, 2).Render(m.modelList.View())

	case browserViewCases:
		return lipgloss.NewStyle().Margin(1, 2).Render(m.caseList.View())

	case browserViewDetail:
		headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		header := headerStyle.Render(fmt.Sprintf("Model: %s", m.selectedModel))
		help := helpStyle.Render("esc: back  q: quit")
		return fmt.Sprintf("%s\n\n%s\n%s", header, m.viewport.View(), help)

	default:
		return "Unknown state"
	}
}

// Browse runs the interactive results browser over the given directory.
func Browse(resultsDir string) error {
	m := newBrowserModel(resultsDir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running results browser: %w", err)
	}
	return nil
}
