package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

// blankSettings are the percentages a budget starts with when no template
// supplies them.
var blankSettings = estimate.Settings{
	MarkupModel:       estimate.MarkupGC,
	GeneralConditions: decimal.NewFromInt(8),
	GCMarkup:          decimal.NewFromInt(15),
}

type NewProjectModel struct {
	CommonModel
	projects *project.Service
	userID   string

	form   *huh.Form
	fields *newProjectFields
	err    error
}

// newProjectFields is shared by every copy of the model so the form writes
// land where createCmd reads them.
type newProjectFields struct {
	name     string
	address  string
	gc       string
	template string
	sqft     string
}

func NewNewProjectModel(svc *project.Service, c *catalog.Catalog, userID string) NewProjectModel {
	m := NewProjectModel{
		projects: svc,
		userID:   userID,
		fields:   &newProjectFields{sqft: "0"},
	}

	options := []huh.Option[string]{huh.NewOption("Blank budget", "")}
	for _, t := range c.Templates() {
		options = append(options, huh.NewOption(t.Name, t.Type))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Project name").
				Value(&m.fields.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("address").
				Title("Address").
				Value(&m.fields.address),

			huh.NewInput().
				Key("gc").
				Title("GC company").
				Value(&m.fields.gc),

			huh.NewInput().
				Key("sqft").
				Title("Total square feet").
				Value(&m.fields.sqft).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("template").
				Title("Start from").
				Options(options...).
				Value(&m.fields.template),
		),
	).WithWidth(60).WithShowHelp(false)

	return m
}

func (m NewProjectModel) Title() string     { return "New Budget" }
func (m NewProjectModel) ShortHelp() string { return "Esc: cancel | Enter/Tab: navigate form" }

func (m NewProjectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m NewProjectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	case createdMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		return m, OpenProject(msg.project.ID)
	}

	if m.form.State == huh.StateCompleted {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m NewProjectModel) View() string {
	content := m.form.View()

	if m.err != nil {
		content = errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(m.Title()),
			"",
			content,
		),
	)
}

type createdMsg struct {
	project *project.Project
	err     error
}

func (m NewProjectModel) createCmd() tea.Cmd {
	sqft, _ := ParseAmount(m.fields.sqft)

	params := project.CreateParams{
		UserID:        m.userID,
		Name:          strings.TrimSpace(m.fields.name),
		Address:       strings.TrimSpace(m.fields.address),
		GCCompanyName: strings.TrimSpace(m.fields.gc),
		TemplateType:  m.fields.template,
		TotalSqft:     sqft,
		Settings:      blankSettings,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.projects.Create(ctx, params)

		return createdMsg{project: p, err: err}
	}
}
