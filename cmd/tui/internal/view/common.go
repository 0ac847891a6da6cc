package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenProjectMsg asks the root model to show a project in the builder.
type OpenProjectMsg struct {
	ID uuid.UUID
}

func OpenProject(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return OpenProjectMsg{ID: id}
	}
}

// ExportProjectMsg asks the root model to export a snapshot of a project.
type ExportProjectMsg struct {
	Project *project.Project
}
