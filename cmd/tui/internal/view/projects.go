package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

var statusFilters = []project.Status{"", project.StatusDraft, project.StatusActive, project.StatusCompleted, project.StatusArchived}

type ProjectsModel struct {
	CommonModel
	projects *project.Service
	userID   string

	table    table.Model
	all      []*project.Project
	shown    []*project.Project
	stats    project.Stats
	filterIx int

	loading bool
	err     error
	status  string
}

func NewProjectsModel(svc *project.Service, userID string) ProjectsModel {
	columns := []table.Column{
		{Title: "Project", Width: 32},
		{Title: "Status", Width: 10},
		{Title: "SF", Width: 8},
		{Title: "Grand Total", Width: 16},
		{Title: "Updated", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ProjectsModel{
		projects: svc,
		userID:   userID,
		table:    t,
		loading:  true,
	}
}

func (m ProjectsModel) Title() string { return "Projects" }
func (m ProjectsModel) ShortHelp() string {
	return "Esc: back | Enter: open | c: copy | x: delete | s: status filter | r: refresh"
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProjectsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.all = msg.projects
		m.stats = msg.stats
		m.refreshTable()

		return m, nil

	case projectActionMsg:
		m.status = msg.done
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filterIx = (m.filterIx + 1) % len(statusFilters)
			m.refreshTable()

			return m, nil
		case "enter":
			if p := m.selected(); p != nil {
				return m, OpenProject(p.ID)
			}
		case "c":
			if p := m.selected(); p != nil {
				return m, m.duplicateCmd(p)
			}
		case "x":
			if p := m.selected(); p != nil {
				return m, m.deleteCmd(p)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProjectsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading projects...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := "All"
	if f := statusFilters[m.filterIx]; f != "" {
		filter = string(f)
	}

	header := fmt.Sprintf(
		"%d projects | %d active | %s budgeted | [s] Status: %s",
		m.stats.TotalProjects,
		m.stats.ActiveProjects,
		export.USD(m.stats.TotalBudget),
		activeStyle(filter),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProjectsModel) refreshTable() {
	want := statusFilters[m.filterIx]

	m.shown = make([]*project.Project, 0, len(m.all))
	rows := make([]table.Row, 0, len(m.all))

	for _, p := range m.all {
		if want != "" && p.Status != want {
			continue
		}

		m.shown = append(m.shown, p)
		rows = append(rows, table.Row{
			p.Name,
			string(p.Status),
			p.TotalSqft.String(),
			export.USD(p.GrandTotal),
			FormatDate(p.UpdatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m ProjectsModel) selected() *project.Project {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.shown) {
		return nil
	}

	return m.shown[idx]
}

// Messages

type loadProjectsMsg struct {
	projects []*project.Project
	stats    project.Stats
	err      error
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		projects, err := m.projects.List(ctx, m.userID)
		if err != nil {
			return loadProjectsMsg{err: err}
		}

		stats, err := m.projects.Stats(ctx, m.userID)

		return loadProjectsMsg{projects: projects, stats: stats, err: err}
	}
}

type projectActionMsg struct {
	done string
	err  error
}

func (m ProjectsModel) duplicateCmd(p *project.Project) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		dup, err := m.projects.Duplicate(ctx, p.ID, m.userID)
		if err != nil {
			return projectActionMsg{err: err}
		}

		return projectActionMsg{done: fmt.Sprintf("Created %q", dup.Name)}
	}
}

func (m ProjectsModel) deleteCmd(p *project.Project) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.projects.Delete(ctx, p.ID, m.userID); err != nil {
			return projectActionMsg{err: err}
		}

		return projectActionMsg{done: fmt.Sprintf("Deleted %q", p.Name)}
	}
}
