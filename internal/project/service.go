package project

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
)

const copySuffix = " (Copy)"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project
type Repository interface {
	Upsert(ctx context.Context, p *Project) error
	Get(ctx context.Context, id uuid.UUID, userID string) (*Project, error)
	List(ctx context.Context, userID string) ([]*Project, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Stats(ctx context.Context, userID string) (Stats, error)
}

// Catalog is the reference data a project is priced and judged against.
type Catalog interface {
	estimate.Reference
	Template(templateType string) (catalog.Template, bool)
	Benchmark(projectType string) (catalog.Benchmark, bool)
}

type Service struct {
	repo     Repository
	catalog  Catalog
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, c Catalog) *Service {
	return &Service{
		repo:     repo,
		catalog:  c,
		validate: estimate.NewValidator(),
		now:      time.Now,
	}
}

type CreateParams struct {
	UserID        string
	Name          string
	Address       string
	GCCompanyName string
	Notes         string
	ProjectType   string
	TemplateType  string
	TotalSqft     decimal.Decimal
	Settings      estimate.Settings
}

// Create starts a project, seeding it from a template when one is named.
// Template scopes the catalog does not know are left out.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	p := &Project{
		UserID:        params.UserID,
		Name:          params.Name,
		Address:       params.Address,
		GCCompanyName: params.GCCompanyName,
		Notes:         params.Notes,
		ProjectType:   params.ProjectType,
		TemplateType:  params.TemplateType,
		Status:        StatusDraft,
		Settings:      params.Settings,
		TotalSqft:     params.TotalSqft,
	}

	if params.TemplateType != "" {
		t, ok := s.catalog.Template(params.TemplateType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown template %q", ErrInvalidProject, params.TemplateType)
		}

		d := estimate.NewDraft(s.catalog)
		if err := d.SetSettings(params.Settings); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
		}

		if skipped := d.ApplyTemplate(t); len(skipped) > 0 {
			slog.Warn("template scopes not in catalog", "template", t.Type, "scopes", skipped)
		}

		p.LineItems = d.Items()
		p.Settings = d.Settings()

		if p.ProjectType == "" {
			p.ProjectType = t.Benchmark
		}
	}

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Save validates p, recomputes everything derived from its line items and
// upserts it. Derived values supplied by the caller are overwritten.
func (s *Service) Save(ctx context.Context, p *Project) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	d, err := estimate.LoadDraft(s.catalog, p.LineItems, p.TotalSqft, p.Settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	totals := d.Totals()

	p.LineItems = d.Items()
	p.Subtotal = totals.Subtotal
	p.GrandTotal = totals.GrandTotal
	p.CategoryBreakdown = d.Breakdown()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.Status == "" {
		p.Status = StatusDraft
	}

	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, userID string) (*Project, error) {
	return s.repo.Get(ctx, id, userID)
}

// List returns the user's projects, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]*Project, error) {
	projects, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(projects, func(a, b *Project) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return projects, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.Stats(ctx, userID)
}

// Duplicate saves a copy of a project under a new id, with fresh line item
// ids and the status reset to Draft.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID, userID string) (*Project, error) {
	src, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	dup := src.clone()
	dup.ID = uuid.Nil
	dup.Name += copySuffix
	dup.Status = StatusDraft
	dup.CreatedAt = time.Time{}

	for i := range dup.LineItems {
		dup.LineItems[i].ID = uuid.New()
	}

	if err := s.Save(ctx, dup); err != nil {
		return nil, err
	}

	return dup, nil
}

type UpdateParams struct {
	Name          *string
	Address       *string
	GCCompanyName *string
	Notes         *string
	ProjectType   *string
	Status        *Status
	Settings      *estimate.Settings
	TotalSqft     *decimal.Decimal
}

// Update changes the descriptive fields, settings or footprint of a project.
func (s *Service) Update(ctx context.Context, id uuid.UUID, userID string, params UpdateParams) (*Project, error) {
	p, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	setIf(&p.Name, params.Name)
	setIf(&p.Address, params.Address)
	setIf(&p.GCCompanyName, params.GCCompanyName)
	setIf(&p.Notes, params.Notes)
	setIf(&p.ProjectType, params.ProjectType)
	setIf(&p.Status, params.Status)
	setIf(&p.Settings, params.Settings)
	setIf(&p.TotalSqft, params.TotalSqft)

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Edit loads a project into a draft, lets fn mutate it and saves the result.
// Nothing is written when fn fails.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, userID string, fn func(d *estimate.Draft) error) (*Project, error) {
	p, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	d, err := estimate.LoadDraft(s.catalog, p.LineItems, p.TotalSqft, p.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	if err := fn(d); err != nil {
		return nil, err
	}

	p.LineItems = d.Items()
	p.TotalSqft = d.TotalSqft()
	p.Settings = d.Settings()

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Import saves projects read from a legacy export, keeping their ids.
func (s *Service) Import(ctx context.Context, projects []*Project) (int, error) {
	for i, p := range projects {
		if err := s.Save(ctx, p); err != nil {
			return i, fmt.Errorf("importing project %q: %w", p.Name, err)
		}
	}

	return len(projects), nil
}

// Summary computes totals, breakdown, review issues and the cost per square
// foot of p, and judges the latter against the project type's benchmark.
func (s *Service) Summary(p *Project) Summary {
	totals := estimate.Calculate(p.LineItems, p.Settings)

	sum := Summary{
		Totals:    totals,
		Breakdown: estimate.Breakdown(s.catalog, p.LineItems),
		Issues:    estimate.Issues(p.LineItems),
	}

	perSqft, ok := estimate.CostPerSqft(totals.GrandTotal, p.TotalSqft)
	if !ok {
		return sum
	}

	sum.CostPerSqft = decimal.NewNullDecimal(perSqft)

	b, ok := s.catalog.Benchmark(p.ProjectType)
	if !ok {
		return sum
	}

	sum.Benchmark = &Benchmark{
		ProjectType: p.ProjectType,
		Min:         b.Min,
		Max:         b.Max,
		Average:     b.Average,
		Verdict:     verdict(b, perSqft),
	}

	return sum
}

func verdict(b catalog.Benchmark, perSqft decimal.Decimal) BenchmarkVerdict {
	switch {
	case perSqft.LessThan(b.Min):
		return BenchmarkBelow
	case perSqft.GreaterThan(b.Max):
		return BenchmarkAbove
	default:
		return BenchmarkWithin
	}
}
