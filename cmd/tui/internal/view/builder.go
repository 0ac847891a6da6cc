package view

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

type builderState int

const (
	builderStateLoading builderState = iota
	builderStateBrowse
	builderStateForm
	builderStateInput
)

type addKind int

const (
	addScope addKind = iota
	addAssembly
	addCustom
)

type inputTarget int

const (
	inputQuantity inputTarget = iota
	inputUnitCost
	inputNotes
	inputSqft
)

func (t inputTarget) String() string {
	switch t {
	case inputQuantity:
		return "Quantity"
	case inputUnitCost:
		return "Unit cost"
	case inputNotes:
		return "Notes"
	case inputSqft:
		return "Total square feet"
	}

	return ""
}

// BuilderModel edits one project. Changes stay in the draft until a save
// succeeds.
type BuilderModel struct {
	CommonModel
	projects *project.Service
	aliases  *alias.Service
	catalog  *catalog.Catalog
	userID   string
	id       uuid.UUID

	state   builderState
	p       *project.Project
	draft   *estimate.Draft
	dirty   bool
	discard bool
	// gen counts draft edits so a save only clears dirty for the state it wrote.
	gen int

	table table.Model

	form    *huh.Form
	adding  addKind
	fields  *builderFields
	input   textinput.Model
	target  inputTarget
	editing uuid.UUID

	err    error
	status string
}

type builderFields struct {
	scope    string
	assembly string
	name     string
	qty      string
	cost     string
}

func NewBuilderModel(svc *project.Service, aliases *alias.Service, c *catalog.Catalog, userID string, id uuid.UUID) BuilderModel {
	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Scope", Width: 34},
		{Title: "Unit", Width: 5},
		{Title: "Qty", Width: 8},
		{Title: "Unit Cost", Width: 12},
		{Title: "Total", Width: 13},
		{Title: "Tax", Width: 3},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(18),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Width = 40

	return BuilderModel{
		projects: svc,
		aliases:  aliases,
		catalog:  c,
		userID:   userID,
		id:       id,
		table:    t,
		input:    ti,
		fields:   &builderFields{},
	}
}

func (m BuilderModel) Title() string {
	if m.p == nil {
		return "Budget"
	}

	return m.p.Name
}

func (m BuilderModel) ShortHelp() string {
	switch m.state {
	case builderStateForm:
		return "Esc: cancel | Enter/Tab: navigate form | /: filter"
	case builderStateInput:
		return "Enter: apply | Esc: cancel"
	}

	return "a: scope | m: assembly | c: custom | enter: qty | u: cost | n: notes | t: taxable | d: copy | x: remove | f: SF | s: save | e: export | Esc: back"
}

func (m BuilderModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case builderLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		d, err := estimate.LoadDraft(m.catalog, msg.project.LineItems, msg.project.TotalSqft, msg.project.Settings)
		if err != nil {
			m.err = err
			return m, nil
		}

		m.p, m.draft = msg.project, d
		m.state = builderStateBrowse
		m.refreshTable()

		return m, nil

	case builderSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.p = msg.project
		m.status = fmt.Sprintf("Saved. Grand total %s", export.USD(m.p.GrandTotal))

		if msg.gen != m.gen {
			m.status += " (newer edits not saved yet)"
			return m, nil
		}

		m.dirty = false
		m.discard = false

		return m, nil

	case suggestionMsg:
		if msg.scope != "" && !strings.EqualFold(msg.scope, msg.raw) {
			m.status = fmt.Sprintf("%q looks like catalog scope %q (a: add scope)", msg.raw, msg.scope)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case builderStateBrowse:
		return m.updateBrowse(msg)
	case builderStateForm:
		return m.updateForm(msg)
	case builderStateInput:
		return m.updateInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m BuilderModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	if keyMsg.Type != tea.KeyEsc {
		m.discard = false
	}

	switch keyMsg.String() {
	case "esc":
		if m.dirty && !m.discard {
			m.discard = true
			m.status = "Unsaved changes. s: save | Esc: discard and leave"

			return m, nil
		}

		return m, Back
	case "a":
		return m.openForm(addScope)
	case "m":
		return m.openForm(addAssembly)
	case "c":
		return m.openForm(addCustom)
	case "enter":
		return m.openInput(inputQuantity)
	case "u":
		return m.openInput(inputUnitCost)
	case "n":
		return m.openInput(inputNotes)
	case "f":
		return m.openInput(inputSqft)
	case "t":
		if li, ok := m.selected(); ok {
			m.apply(m.draft.SetTaxable(li.ID, !li.Taxable))
		}

		return m, nil
	case "d":
		if li, ok := m.selected(); ok {
			_, err := m.draft.Duplicate(li.ID)
			m.apply(err)
		}

		return m, nil
	case "x":
		if li, ok := m.selected(); ok {
			m.apply(m.draft.Remove(li.ID))
		}

		return m, nil
	case "s":
		return m, m.saveCmd()
	case "e":
		snapshot := m.snapshot()
		return m, func() tea.Msg { return ExportProjectMsg{Project: snapshot} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// apply records the outcome of a draft edit.
func (m *BuilderModel) apply(err error) {
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return
	}

	m.dirty = true
	m.gen++
	m.status = ""
	m.refreshTable()
}

func (m BuilderModel) openForm(kind addKind) (tea.Model, tea.Cmd) {
	m.adding = kind
	m.fields = &builderFields{qty: "1", cost: "0"}

	qty := huh.NewInput().
		Key("quantity").
		Title("Quantity").
		Value(&m.fields.qty).
		Validate(validateAmount)

	var group *huh.Group

	switch kind {
	case addScope:
		options := make([]huh.Option[string], 0, len(m.catalog.Scopes()))
		for _, s := range m.catalog.Scopes() {
			label := fmt.Sprintf("%s  %s/%s  [%s]", s.Name, export.USD(s.DefaultUnitCost), s.Unit, s.Category)
			options = append(options, huh.NewOption(label, s.Name))
		}

		group = huh.NewGroup(
			huh.NewSelect[string]().
				Key("scope").
				Title("Scope of work").
				Options(options...).
				Filtering(true).
				Height(12).
				Value(&m.fields.scope),
			qty,
		)
	case addAssembly:
		options := make([]huh.Option[string], 0, len(m.catalog.Assemblies()))
		for _, a := range m.catalog.Assemblies() {
			label := fmt.Sprintf("%s  %s  [%s]", a.Name, export.USD(estimate.AssemblyBaseCost(m.catalog, a)), a.Category)
			options = append(options, huh.NewOption(label, a.ID))
		}

		group = huh.NewGroup(
			huh.NewSelect[string]().
				Key("assembly").
				Title("Assembly").
				Options(options...).
				Value(&m.fields.assembly),
			qty,
		)
	case addCustom:
		group = huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Description").
				Placeholder(estimate.DefaultCustomName).
				Value(&m.fields.name),
			qty,
			huh.NewInput().
				Key("cost").
				Title("Unit cost").
				Value(&m.fields.cost).
				Validate(validateAmount),
		)
	}

	m.form = huh.NewForm(group).WithWidth(60).WithShowHelp(false)
	m.state = builderStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m BuilderModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeOverlay(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m = m.closeOverlay()

	qty, _ := ParseAmount(m.fields.qty)

	var err error

	switch m.adding {
	case addScope:
		_, err = m.draft.AddScope(m.fields.scope, qty)
	case addAssembly:
		_, err = m.draft.AddAssembly(m.fields.assembly, qty)
	case addCustom:
		err = m.addCustom(qty)
		if err == nil && strings.TrimSpace(m.fields.name) != "" {
			m.apply(nil)
			return m, m.suggestCmd(m.fields.name)
		}
	}

	m.apply(err)

	return m, nil
}

func (m BuilderModel) addCustom(qty decimal.Decimal) error {
	li := m.draft.AddCustom(m.fields.name)

	if err := m.draft.UpdateQuantity(li.ID, qty); err != nil {
		return err
	}

	cost, _ := ParseAmount(m.fields.cost)

	return m.draft.UpdateUnitCost(li.ID, cost)
}

func (m BuilderModel) openInput(target inputTarget) (tea.Model, tea.Cmd) {
	m.target = target

	switch target {
	case inputSqft:
		m.input.SetValue(m.draft.TotalSqft().String())
	default:
		li, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.editing = li.ID

		switch target {
		case inputQuantity:
			m.input.SetValue(li.Quantity.String())
		case inputUnitCost:
			m.input.SetValue(li.UnitCost.StringFixed(2))
		case inputNotes:
			m.input.SetValue(li.Notes)
		}
	}

	m.state = builderStateInput
	m.table.Blur()
	m.input.Focus()

	return m, textinput.Blink
}

func (m BuilderModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m.closeOverlay(), nil
		case tea.KeyEnter:
			raw := strings.TrimSpace(m.input.Value())
			m = m.closeOverlay()
			m.apply(m.applyInput(raw))

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m BuilderModel) applyInput(raw string) error {
	if m.target == inputNotes {
		return m.draft.UpdateNotes(m.editing, raw)
	}

	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}

	switch m.target {
	case inputQuantity:
		return m.draft.UpdateQuantity(m.editing, v)
	case inputUnitCost:
		return m.draft.UpdateUnitCost(m.editing, v)
	case inputSqft:
		return m.draft.SetTotalSqft(v)
	}

	return errors.New("nothing to edit")
}

func (m BuilderModel) closeOverlay() BuilderModel {
	m.state = builderStateBrowse
	m.form = nil
	m.input.Blur()
	m.table.Focus()

	return m
}

func (m BuilderModel) selected() (estimate.LineItem, bool) {
	items := m.draft.Items()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(items) {
		return estimate.LineItem{}, false
	}

	return items[idx], true
}

// snapshot is the project as it would be saved now.
func (m BuilderModel) snapshot() *project.Project {
	p := *m.p
	p.LineItems = m.draft.Items()
	p.TotalSqft = m.draft.TotalSqft()
	p.Settings = m.draft.Settings()

	return &p
}

var kindMarks = map[estimate.Kind]string{
	estimate.KindScope:      "",
	estimate.KindCustom:     "*",
	estimate.KindAssembly:   "A",
	estimate.KindCommonArea: "C",
}

func (m *BuilderModel) refreshTable() {
	items := m.draft.Items()
	rows := make([]table.Row, 0, len(items))

	for _, li := range items {
		mark := kindMarks[li.Kind]
		if li.Unpriced {
			mark = "?"
		}

		tax := ""
		if li.Taxable {
			tax = "T"
		}

		rows = append(rows, table.Row{
			mark,
			li.ScopeName,
			string(li.Unit),
			export.Qty(li.Quantity),
			export.USD(li.UnitCost),
			export.USD(li.Total),
			tax,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m BuilderModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	if m.state == builderStateLoading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budget...")
	}

	title := m.Title()
	if m.dirty {
		title += activeStyle(" (unsaved)")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	left := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(title),
		tableView,
	)

	var right string

	switch m.state {
	case builderStateForm:
		right = m.panel("Add", m.form.View())
	case builderStateInput:
		right = m.panel(m.target.String(), m.input.View())
	default:
		right = m.panel("Totals", m.totalsView())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BuilderModel) panel(title, body string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + body)
}

func (m BuilderModel) totalsView() string {
	totals := m.draft.Totals()

	var b strings.Builder

	for _, s := range export.Stages(totals, m.draft.Settings()) {
		line := fmt.Sprintf("%-26s %14s", s.Label, export.USD(s.Amount))
		if s.Total {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}

		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\nRange %s to %s\n", export.USD(totals.RangeLow), export.USD(totals.RangeHigh))

	if sqft := m.draft.TotalSqft(); sqft.IsPositive() {
		remaining := estimate.RemainingSquareFeet(m.draft.Items(), sqft)
		fmt.Fprintf(&b, "%s SF total, %s SF unassigned\n", sqft.String(), remaining.String())
	}

	if per, ok := m.draft.CostPerSqft(); ok {
		fmt.Fprintf(&b, "%s per SF\n", export.USD(per))
	}

	for _, is := range m.draft.Issues() {
		b.WriteString("\n" + errorStyle("! "+is.Message))
	}

	return b.String()
}

// Messages

type builderLoadedMsg struct {
	project *project.Project
	err     error
}

func (m BuilderModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.projects.Get(ctx, m.id, m.userID)

		return builderLoadedMsg{project: p, err: err}
	}
}

type builderSavedMsg struct {
	project *project.Project
	gen     int
	err     error
}

func (m BuilderModel) saveCmd() tea.Cmd {
	p, gen := m.snapshot(), m.gen

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.projects.Save(ctx, p); err != nil {
			return builderSavedMsg{err: err}
		}

		return builderSavedMsg{project: p, gen: gen}
	}
}

type suggestionMsg struct {
	raw   string
	scope string
}

func (m BuilderModel) suggestCmd(raw string) tea.Cmd {
	if m.aliases == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		scope, err := m.aliases.Suggest(ctx, raw)
		if err != nil {
			slog.Warn("alias lookup failed", "raw", raw, "error", err)
			return nil
		}

		return suggestionMsg{raw: raw, scope: scope}
	}
}
