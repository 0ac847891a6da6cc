package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectProjectColumns = `
	id, user_id, project_name, address, gc_company_name, notes, template_type, project_type, status,
	markup_model, general_conditions_percentage, gc_markup_percentage, overhead_percentage, profit_percentage,
	bond_insurance_percentage, contingency_percentage, sales_tax_percentage, scope_gap_buffer_percentage,
	apply_scope_gap_buffer, total_sqft, line_items, subtotal, grand_total, category_breakdown,
	created_at, updated_at
`

// scanProject reads a row in selectProjectColumns order.
func scanProject(s scanner) (*project.Project, error) {
	var (
		p         project.Project
		status    string
		model     string
		items     []byte
		breakdown []byte
	)

	st := &p.Settings

	if err := s.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Address, &p.GCCompanyName, &p.Notes, &p.TemplateType, &p.ProjectType, &status,
		&model, &st.GeneralConditions, &st.GCMarkup, &st.Overhead, &st.Profit,
		&st.BondInsurance, &st.Contingency, &st.SalesTax, &st.ScopeGapBuffer,
		&st.ApplyScopeGapBuffer, &p.TotalSqft, &items, &p.Subtotal, &p.GrandTotal, &breakdown,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = project.Status(status)
	st.MarkupModel = estimate.MarkupModel(model)

	if err := json.Unmarshal(items, &p.LineItems); err != nil {
		return nil, fmt.Errorf("decoding line items: %w", err)
	}

	if err := json.Unmarshal(breakdown, &p.CategoryBreakdown); err != nil {
		return nil, fmt.Errorf("decoding category breakdown: %w", err)
	}

	return &p, nil
}

// Upsert inserts p or overwrites the stored row with the same id. A row owned
// by another user is left alone and reported as not found.
func (s *Store) Upsert(ctx context.Context, p *project.Project) error {
	items, err := json.Marshal(nonNil(p.LineItems))
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	breakdown, err := json.Marshal(nonNil(p.CategoryBreakdown))
	if err != nil {
		return fmt.Errorf("encoding category breakdown: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, user_id, project_name, address, gc_company_name, notes, template_type, project_type, status,
			markup_model, general_conditions_percentage, gc_markup_percentage, overhead_percentage, profit_percentage,
			bond_insurance_percentage, contingency_percentage, sales_tax_percentage, scope_gap_buffer_percentage,
			apply_scope_gap_buffer, total_sqft, line_items, subtotal, grand_total, category_breakdown,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)
		ON CONFLICT (id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			address = EXCLUDED.address,
			gc_company_name = EXCLUDED.gc_company_name,
			notes = EXCLUDED.notes,
			template_type = EXCLUDED.template_type,
			project_type = EXCLUDED.project_type,
			status = EXCLUDED.status,
			markup_model = EXCLUDED.markup_model,
			general_conditions_percentage = EXCLUDED.general_conditions_percentage,
			gc_markup_percentage = EXCLUDED.gc_markup_percentage,
			overhead_percentage = EXCLUDED.overhead_percentage,
			profit_percentage = EXCLUDED.profit_percentage,
			bond_insurance_percentage = EXCLUDED.bond_insurance_percentage,
			contingency_percentage = EXCLUDED.contingency_percentage,
			sales_tax_percentage = EXCLUDED.sales_tax_percentage,
			scope_gap_buffer_percentage = EXCLUDED.scope_gap_buffer_percentage,
			apply_scope_gap_buffer = EXCLUDED.apply_scope_gap_buffer,
			total_sqft = EXCLUDED.total_sqft,
			line_items = EXCLUDED.line_items,
			subtotal = EXCLUDED.subtotal,
			grand_total = EXCLUDED.grand_total,
			category_breakdown = EXCLUDED.category_breakdown,
			updated_at = EXCLUDED.updated_at
		WHERE projects.user_id = EXCLUDED.user_id
		RETURNING created_at
	`

	st := p.Settings

	err = s.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Name, p.Address, p.GCCompanyName, p.Notes, p.TemplateType, p.ProjectType, p.Status,
		st.Model(), st.GeneralConditions, st.GCMarkup, st.Overhead, st.Profit,
		st.BondInsurance, st.Contingency, st.SalesTax, st.ScopeGapBuffer,
		st.ApplyScopeGapBuffer, p.TotalSqft, string(items), p.Subtotal, p.GrandTotal, string(breakdown),
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.ErrNotFound
		}

		return fmt.Errorf("upserting project: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID, userID string) (*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + `
		FROM projects
		WHERE id = $1 AND user_id = $2`

	p, err := scanProject(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrNotFound
		}

		return nil, fmt.Errorf("getting project: %w", err)
	}

	return p, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + `
		FROM projects
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if n == 0 {
		return project.ErrNotFound
	}

	return nil
}

func (s *Store) Stats(ctx context.Context, userID string) (project.Stats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(grand_total), 0), COUNT(*) FILTER (WHERE status = $2)
		FROM projects
		WHERE user_id = $1
	`

	var (
		stats  project.Stats
		budget decimal.Decimal
	)

	if err := s.db.QueryRowContext(ctx, query, userID, project.StatusActive).
		Scan(&stats.TotalProjects, &budget, &stats.ActiveProjects); err != nil {
		return project.Stats{}, fmt.Errorf("getting project stats: %w", err)
	}

	stats.TotalBudget = budget

	return stats, nil
}

// nonNil keeps empty JSONB columns as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}

	return v
}
