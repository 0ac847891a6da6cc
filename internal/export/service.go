package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

//go:generate mockgen -source=service.go -destination=projects_mock.go -package=export
type Projects interface {
	Get(ctx context.Context, id uuid.UUID, userID string) (*project.Project, error)
	Summary(p *project.Project) project.Summary
}

// File is a rendered export ready to be downloaded or written to disk.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// Service renders saved projects.
type Service struct {
	projects Projects
	now      func() time.Time
}

func NewService(projects Projects) *Service {
	return &Service{projects: projects, now: time.Now}
}

// Export loads a project the user owns and renders it in format f.
func (s *Service) Export(ctx context.Context, id uuid.UUID, userID string, f Format) (*File, error) {
	p, err := s.projects.Get(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	return s.Render(p, f)
}

// Render renders a project that is not necessarily saved.
func (s *Service) Render(p *project.Project, f Format) (*File, error) {
	doc := NewDocument(p, s.projects.Summary(p), s.now())

	body, err := Render(f, doc)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        FileName(p.Name, f),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}
