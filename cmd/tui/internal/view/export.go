package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service
	project       *project.Project

	state   exportState
	err     error
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	written string
}

type exportFields struct {
	format export.Format
	dir    string
}

func NewExportModel(svc *export.Service, p *project.Project) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		project:       p,
		state:         exportStateForm,
		fields:        &exportFields{format: export.FormatPDF, dir: "./exports"},
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Budget" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to budget"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.fields.format, m.fields.dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("PDF report", export.FormatPDF),
					huh.NewOption("Excel workbook", export.FormatXLSX),
					huh.NewOption("HTML page", export.FormatHTML),
					huh.NewOption("All three (zip)", export.FormatZip),
				).
				Value(&m.fields.format),

			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Export %q", m.project.Name)),
				"",
				m.form.View(),
			),
		)

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering %s...", m.spinner.View(), m.fields.format),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Written to "+m.written,
		),
	)
}

type exportResultMsg struct {
	path string
	err  error
}

func (m ExportModel) runExportCmd(f export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		file, err := m.exportService.Render(m.project, f)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, file.Name)
		if err := os.WriteFile(path, file.Body, 0o644); err != nil {
			return exportResultMsg{err: fmt.Errorf("writing %s: %w", path, err)}
		}

		return exportResultMsg{path: path}
	}
}
