package view_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bldriq/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/bldriq/internal/alias/store"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	projectStore "github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

const user = "guest-user-1"

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds the messages produced by cmd back into m until none are left.
func run(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()

	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}

		m, cmd = m.Update(msg)
	}

	return m
}

func TestBuilder_KeepsDraftUntilSaved(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	require.NoError(t, err)

	svc := project.NewService(projectStore.NewMemory(), c)
	aliases := alias.NewService(aliasStore.NewMemory(), c)

	p, err := svc.Create(context.Background(), project.CreateParams{
		UserID:       user,
		Name:         "Suite 300",
		TemplateType: "office-renovation",
		TotalSqft:    decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	before := len(p.LineItems)

	b := view.NewBuilderModel(svc, aliases, c, user, p.ID)
	m := run(t, b, b.Init())

	assert.Contains(t, m.View(), "Suite 300")
	assert.Contains(t, m.View(), "Grand Total")

	m, _ = m.Update(key("x"))
	assert.Contains(t, m.View(), "(unsaved)")

	stored, err := svc.Get(context.Background(), p.ID, user)
	require.NoError(t, err)
	assert.Len(t, stored.LineItems, before, "nothing is written before save")

	m, cmd := m.Update(key("s"))
	m = run(t, m, cmd)

	assert.Contains(t, m.View(), "Saved.")
	assert.NotContains(t, m.View(), "(unsaved)")

	stored, err = svc.Get(context.Background(), p.ID, user)
	require.NoError(t, err)
	assert.Len(t, stored.LineItems, before-1)
}

func TestBuilder_EscWarnsOnUnsavedChanges(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	require.NoError(t, err)

	svc := project.NewService(projectStore.NewMemory(), c)

	p, err := svc.Create(context.Background(), project.CreateParams{
		UserID:       user,
		Name:         "Kiosk",
		TemplateType: "office-renovation",
	})
	require.NoError(t, err)

	b := view.NewBuilderModel(svc, nil, c, user, p.ID)
	m := run(t, b, b.Init())

	m, _ = m.Update(key("d"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "first esc only warns")
	assert.Contains(t, m.View(), "Unsaved changes")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, view.BackMsg{}, cmd())
}

func TestBuilder_EditsDuringSaveStayUnsaved(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	require.NoError(t, err)

	svc := project.NewService(projectStore.NewMemory(), c)

	p, err := svc.Create(context.Background(), project.CreateParams{
		UserID:       user,
		Name:         "Suite 410",
		TemplateType: "office-renovation",
	})
	require.NoError(t, err)

	b := view.NewBuilderModel(svc, nil, c, user, p.ID)
	m := run(t, b, b.Init())

	m, _ = m.Update(key("x"))

	m, save := m.Update(key("s"))
	require.NotNil(t, save)

	// Another edit lands before the save reports back.
	m, _ = m.Update(key("d"))
	m, _ = m.Update(save())

	assert.Contains(t, m.View(), "newer edits not saved yet")
	assert.Contains(t, m.View(), "(unsaved)")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "esc still warns about the newer edit")
	assert.Contains(t, m.View(), "Unsaved changes")
}
