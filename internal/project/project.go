package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrInvalidProject = errors.New("invalid project")
)

// Status is the lifecycle state a user assigns to a budget.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusArchived  Status = "Archived"
)

// Project is a saved budget. Subtotal, GrandTotal and CategoryBreakdown are
// derived from the line items every time the project is saved.
type Project struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id" validate:"required"`
	Name          string    `json:"project_name" validate:"required,max=200"`
	Address       string    `json:"address" validate:"max=500"`
	GCCompanyName string    `json:"gc_company_name,omitempty" validate:"max=200"`
	Notes         string    `json:"notes,omitempty"`
	TemplateType  string    `json:"template_type,omitempty"`
	ProjectType   string    `json:"project_type,omitempty"`
	Status        Status    `json:"status" validate:"omitempty,oneof=Draft Active Completed Archived"`

	Settings  estimate.Settings   `json:"settings"`
	TotalSqft decimal.Decimal     `json:"total_sqft" validate:"gte=0"`
	LineItems []estimate.LineItem `json:"line_items"`

	Subtotal          decimal.Decimal          `json:"subtotal"`
	GrandTotal        decimal.Decimal          `json:"grand_total"`
	CategoryBreakdown []estimate.CategoryTotal `json:"category_breakdown"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats summarizes a user's projects for the dashboard.
type Stats struct {
	TotalProjects  int             `json:"total_projects"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	ActiveProjects int             `json:"active_projects"`
}

// BenchmarkVerdict places a cost per square foot against the typical band
// for the project type.
type BenchmarkVerdict string

const (
	BenchmarkBelow  BenchmarkVerdict = "below"
	BenchmarkWithin BenchmarkVerdict = "within"
	BenchmarkAbove  BenchmarkVerdict = "above"
)

// Summary is everything a renderer needs besides the project itself.
type Summary struct {
	Totals      estimate.Totals          `json:"totals"`
	Breakdown   []estimate.CategoryTotal `json:"breakdown"`
	Issues      []estimate.Issue         `json:"issues"`
	CostPerSqft decimal.NullDecimal      `json:"cost_per_sqft"`

	Benchmark *Benchmark `json:"benchmark,omitempty"`
}

type Benchmark struct {
	ProjectType string           `json:"project_type"`
	Min         decimal.Decimal  `json:"min"`
	Max         decimal.Decimal  `json:"max"`
	Average     decimal.Decimal  `json:"average"`
	Verdict     BenchmarkVerdict `json:"verdict"`
}

func (p *Project) clone() *Project {
	c := *p
	c.LineItems = append([]estimate.LineItem(nil), p.LineItems...)

	for i := range c.LineItems {
		if ref := c.LineItems[i].Assembly; ref != nil {
			dup := *ref
			c.LineItems[i].Assembly = &dup
		}
	}

	c.CategoryBreakdown = append([]estimate.CategoryTotal(nil), p.CategoryBreakdown...)

	return &c
}
