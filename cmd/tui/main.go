package main

import (
	"database/sql"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bldriq/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/bldriq/internal/alias/store"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/config"
	"github.com/MrJamesThe3rd/bldriq/internal/database"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	projectStore "github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

type model struct {
	projectService *project.Service
	aliasService   *alias.Service
	exportService  *export.Service
	catalog        *catalog.Catalog
	userID         string

	currentView View

	projectsView   view.ProjectsModel
	newProjectView view.NewProjectModel
	builderView    view.BuilderModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu       View = 0
	ViewProjects   View = 1
	ViewNewProject View = 2
	ViewBuilder    View = 3
	ViewExport     View = 4
)

func initialModel() (model, *sql.DB) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	c, err := catalog.Open(cfg.Catalog.Path, cfg.Catalog.ScopesCSV)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	var (
		db          *sql.DB
		projectRepo project.Repository = projectStore.NewMemory()
		aliasRepo   alias.Repository   = aliasStore.NewMemory()
	)

	if cfg.UsesDatabase() {
		db, err = database.New(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		projectRepo, aliasRepo = projectStore.New(db), aliasStore.New(db)
	}

	projectSvc := project.NewService(projectRepo, c)

	return model{
		projectService: projectSvc,
		aliasService:   alias.NewService(aliasRepo, c),
		exportService:  export.NewService(projectSvc),
		catalog:        c,
		userID:         cfg.Auth.GuestUserID,
		currentView:    ViewMenu,
	}, db
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.projectService, m.userID)

				return m, m.projectsView.Init()
			case "2":
				m.currentView = ViewNewProject
				m.newProjectView = view.NewNewProjectModel(m.projectService, m.catalog, m.userID)

				return m, m.newProjectView.Init()
			}
		}
	case view.OpenProjectMsg:
		m.currentView = ViewBuilder
		m.builderView = view.NewBuilderModel(m.projectService, m.aliasService, m.catalog, m.userID, msg.ID)

		return m, m.builderView.Init()
	case view.ExportProjectMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, msg.Project)

		return m, m.exportView.Init()
	case view.BackMsg:
		switch m.currentView {
		case ViewExport:
			m.currentView = ViewBuilder
			return m, nil
		case ViewBuilder:
			m.currentView = ViewProjects
			m.projectsView = view.NewProjectsModel(m.projectService, m.userID)

			return m, m.projectsView.Init()
		}

		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewNewProject:
		var newModel tea.Model
		newModel, cmd = m.newProjectView.Update(msg)
		m.newProjectView = newModel.(view.NewProjectModel)
	case ViewBuilder:
		var newModel tea.Model
		newModel, cmd = m.builderView.Update(msg)
		m.builderView = newModel.(view.BuilderModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"BLDR IQ Budget Builder\n\n" +
				"1. Projects\n" +
				"2. New Budget\n\n" +
				"q. Quit",
		)
	case ViewProjects:
		return m.projectsView.View()
	case ViewNewProject:
		return m.newProjectView.View()
	case ViewBuilder:
		return m.builderView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	m, db := initialModel()
	if db != nil {
		defer db.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
