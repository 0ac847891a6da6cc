package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

// Memory keeps projects in process, for local use and tests. Values are
// stored as JSON so callers never share memory with the store.
type Memory struct {
	mu       sync.RWMutex
	projects map[uuid.UUID][]byte
	owners   map[uuid.UUID]string
}

func NewMemory() *Memory {
	return &Memory{
		projects: make(map[uuid.UUID][]byte),
		owners:   make(map[uuid.UUID]string),
	}
}

func (m *Memory) Upsert(_ context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, ok := m.owners[p.ID]; ok {
		if owner != p.UserID {
			return project.ErrNotFound
		}

		prev, err := decode(m.projects[p.ID])
		if err != nil {
			return err
		}

		p.CreatedAt = prev.CreatedAt
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}

	m.projects[p.ID] = raw
	m.owners[p.ID] = p.UserID

	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID, userID string) (*project.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.owners[id] != userID {
		return nil, project.ErrNotFound
	}

	raw, ok := m.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}

	return decode(raw)
}

// List returns the user's projects in no particular order.
func (m *Memory) List(_ context.Context, userID string) ([]*project.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*project.Project

	for id, owner := range m.owners {
		if owner != userID {
			continue
		}

		p, err := decode(m.projects[id])
		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, nil
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.owners[id]
	if !ok || owner != userID {
		return project.ErrNotFound
	}

	delete(m.projects, id)
	delete(m.owners, id)

	return nil
}

func (m *Memory) Stats(ctx context.Context, userID string) (project.Stats, error) {
	projects, err := m.List(ctx, userID)
	if err != nil {
		return project.Stats{}, err
	}

	stats := project.Stats{TotalBudget: decimal.Zero}

	for _, p := range projects {
		stats.TotalProjects++
		stats.TotalBudget = stats.TotalBudget.Add(p.GrandTotal)

		if p.Status == project.StatusActive {
			stats.ActiveProjects++
		}
	}

	return stats, nil
}

func decode(raw []byte) (*project.Project, error) {
	var p project.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}

	return &p, nil
}
