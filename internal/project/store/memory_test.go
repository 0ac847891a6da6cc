package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	"github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

func newProject(user string, status project.Status, grand int64) *project.Project {
	return &project.Project{
		ID:         uuid.New(),
		UserID:     user,
		Name:       "Suite",
		Status:     status,
		GrandTotal: decimal.NewFromInt(grand),
		LineItems:  []estimate.LineItem{estimate.CustomItem("Allowance")},
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProject("alice", project.StatusDraft, 1000)
	require.NoError(t, m.Upsert(ctx, p))

	got, err := m.Get(ctx, p.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.GrandTotal.Equal(got.GrandTotal))
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, p.LineItems[0].ID, got.LineItems[0].ID)

	got.Name = "changed"

	again, err := m.Get(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Suite", again.Name, "callers never share memory with the store")
}

func TestMemory_Ownership(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProject("alice", project.StatusDraft, 1000)
	require.NoError(t, m.Upsert(ctx, p))

	_, err := m.Get(ctx, p.ID, "bob")
	assert.ErrorIs(t, err, project.ErrNotFound)

	assert.ErrorIs(t, m.Delete(ctx, p.ID, "bob"), project.ErrNotFound)

	stolen := *p
	stolen.UserID = "bob"
	assert.ErrorIs(t, m.Upsert(ctx, &stolen), project.ErrNotFound)

	require.NoError(t, m.Delete(ctx, p.ID, "alice"))

	_, err = m.Get(ctx, p.ID, "alice")
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestMemory_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProject("alice", project.StatusDraft, 1000)
	require.NoError(t, m.Upsert(ctx, p))

	update := *p
	update.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	update.Name = "Suite 2"
	require.NoError(t, m.Upsert(ctx, &update))

	got, err := m.Get(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Suite 2", got.Name)
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))
}

func TestMemory_ListAndStats(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	for _, p := range []*project.Project{
		newProject("alice", project.StatusActive, 1000),
		newProject("alice", project.StatusDraft, 250),
		newProject("alice", project.StatusActive, 50),
		newProject("bob", project.StatusActive, 99999),
	} {
		require.NoError(t, m.Upsert(ctx, p))
	}

	list, err := m.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	stats, err := m.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProjects)
	assert.Equal(t, 2, stats.ActiveProjects)
	assert.True(t, stats.TotalBudget.Equal(decimal.NewFromInt(1300)))

	empty, err := m.Stats(ctx, "carol")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalProjects)
	assert.True(t, empty.TotalBudget.IsZero())
}
