package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleProject() *project.Project {
	return &project.Project{
		ID:            uuid.New(),
		UserID:        "guest-user-1",
		Name:          "Suite 210 / Dental",
		Address:       "400 Main St",
		GCCompanyName: "=HYPERLINK(\"http://x\")",
		Status:        project.StatusActive,
		ProjectType:   "medical",
		TotalSqft:     dec("1000"),
		Settings: estimate.Settings{
			GeneralConditions: dec("8"),
			GCMarkup:          dec("15"),
			Overhead:          dec("10"),
		},
		LineItems: []estimate.LineItem{
			{ID: uuid.New(), Kind: estimate.KindScope, ScopeName: "Carpet Tile", Unit: catalog.UnitSquareFeet, Quantity: dec("1000"), UnitCost: dec("6"), Total: dec("6000")},
			{ID: uuid.New(), Kind: estimate.KindCustom, ScopeName: "-Signage", Unit: catalog.UnitLumpSum, Quantity: dec("1"), UnitCost: dec("2500"), Total: dec("2500"), Taxable: true},
		},
	}
}

func sampleDocument() export.Document {
	p := sampleProject()
	totals := estimate.Calculate(p.LineItems, p.Settings)

	return export.NewDocument(p, project.Summary{
		Totals:      totals,
		CostPerSqft: decimal.NewNullDecimal(dec("10.56")),
		Breakdown: []estimate.CategoryTotal{
			{Name: "Finishes", Value: dec("6000"), Color: estimate.Palette[0]},
			{Name: estimate.CustomCategory, Value: dec("2500"), Color: estimate.Palette[1]},
		},
		Benchmark: &project.Benchmark{ProjectType: "medical", Min: dec("100"), Max: dec("175"), Verdict: project.BenchmarkBelow},
	}, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func labels(stages []export.Stage) []string {
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Label)
	}

	return out
}

func TestStages(t *testing.T) {
	items := []estimate.LineItem{{Kind: estimate.KindScope, Total: dec("1000"), Taxable: true}}

	type testCase struct {
		name     string
		settings estimate.Settings
		want     []string
	}

	tests := []testCase{
		{
			name:     "GCMarkupHidesOverheadAndProfit",
			settings: estimate.Settings{GeneralConditions: dec("8"), GCMarkup: dec("15"), Overhead: dec("10"), Profit: dec("5")},
			want:     []string{"Subtotal", "General Conditions (8%)", "GC Markup (15%)", "Grand Total"},
		},
		{
			name: "OverheadProfitHidesGCMarkup",
			settings: estimate.Settings{
				MarkupModel: estimate.MarkupOverheadProfit,
				GCMarkup:    dec("15"),
				Overhead:    dec("10"),
				Profit:      dec("5"),
			},
			want: []string{"Subtotal", "Overhead (10%)", "Profit (5%)", "Grand Total"},
		},
		{
			name: "EveryOptionalStage",
			settings: estimate.Settings{
				GeneralConditions:   dec("8"),
				GCMarkup:            dec("10"),
				BondInsurance:       dec("1.5"),
				Contingency:         dec("5"),
				SalesTax:            dec("7.25"),
				ScopeGapBuffer:      dec("10"),
				ApplyScopeGapBuffer: true,
			},
			want: []string{
				"Subtotal", "Scope Gap Buffer (10%)", "General Conditions (8%)", "GC Markup (10%)",
				"Bond & Insurance (1.5%)", "Contingency (5%)", "Sales Tax on taxable items (7.25%)", "Grand Total",
			},
		},
		{
			name:     "BufferOff",
			settings: estimate.Settings{ScopeGapBuffer: dec("10")},
			want:     []string{"Subtotal", "Grand Total"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := export.Stages(estimate.Calculate(items, tt.settings), tt.settings)

			assert.Equal(t, tt.want, labels(stages))
			assert.True(t, stages[len(stages)-1].Total)
		})
	}
}

func TestUSD(t *testing.T) {
	tests := map[string]string{
		"0":          "$0.00",
		"5":          "$5.00",
		"999.999":    "$1,000.00",
		"1234567.8":  "$1,234,567.80",
		"-42000.5":   "-$42,000.50",
		"105570.125": "$105,570.13",
		"0.005":      "$0.01",
		"-0.001":     "$0.00",
		"2500000000": "$2,500,000,000.00",
	}

	for in, want := range tests {
		assert.Equal(t, want, export.USD(dec(in)), in)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	f, err = export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatPDF, f)

	_, err = export.ParseFormat("docx")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Suite-210-Dental.pdf", export.FileName("Suite 210 / Dental", export.FormatPDF))
	assert.Equal(t, "budget.zip", export.FileName(" // ", export.FormatZip))
}

func TestHTML(t *testing.T) {
	out, err := export.HTML(sampleDocument())
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Suite 210 / Dental")
	assert.Contains(t, html, "$6,000.00")
	assert.Contains(t, html, "GC Markup (15%)")
	assert.NotContains(t, html, "Overhead")
	assert.Contains(t, html, "Budget Range")
	assert.Contains(t, html, "preliminary budget estimate")
	assert.Contains(t, html, estimate.Palette[0])
}

func TestPDF(t *testing.T) {
	out, err := export.PDF(sampleDocument())
	require.NoError(t, err)
	require.Greater(t, len(out), 5)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestXLSX(t *testing.T) {
	out, err := export.XLSX(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Budget", "Breakdown"}, f.GetSheetList())

	title, err := f.GetCellValue("Budget", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Suite 210 / Dental", title)

	rows, err := f.GetRows("Budget")
	require.NoError(t, err)

	var sawCompany, sawCustom bool

	for _, r := range rows {
		if len(r) == 0 {
			continue
		}

		if strings.Contains(r[0], "HYPERLINK") {
			sawCompany = true
			assert.True(t, strings.HasPrefix(r[0], "'="), r[0])
		}

		if len(r) > 1 && strings.Contains(r[1], "Signage") {
			sawCustom = true
			assert.Equal(t, "'-Signage", r[1])
		}
	}

	assert.True(t, sawCompany)
	assert.True(t, sawCustom)

	category, err := f.GetCellValue("Breakdown", "A3")
	require.NoError(t, err)
	assert.Equal(t, estimate.CustomCategory, category)
}

func TestBundle(t *testing.T) {
	out, err := export.Bundle(sampleDocument())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{"Suite-210-Dental.pdf", "Suite-210-Dental.xlsx", "Suite-210-Dental.html"}, names)
}

func TestService_Export(t *testing.T) {
	type testCase struct {
		name      string
		format    export.Format
		setupMock func(m *export.MockProjects, p *project.Project)
		wantType  string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "HTML",
			format: export.FormatHTML,
			setupMock: func(m *export.MockProjects, p *project.Project) {
				m.EXPECT().Get(gomock.Any(), p.ID, p.UserID).Return(p, nil)
				m.EXPECT().Summary(p).Return(project.Summary{Totals: estimate.Calculate(p.LineItems, p.Settings)})
			},
			wantType: "text/html; charset=utf-8",
		},
		{
			name:   "NotFound",
			format: export.FormatPDF,
			setupMock: func(m *export.MockProjects, p *project.Project) {
				m.EXPECT().Get(gomock.Any(), p.ID, p.UserID).Return(nil, project.ErrNotFound)
			},
			wantErr: project.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p := sampleProject()
			m := export.NewMockProjects(ctrl)
			tt.setupMock(m, p)

			file, err := export.NewService(m).Export(context.Background(), p.ID, p.UserID, tt.format)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, file.ContentType)
			assert.Equal(t, "Suite-210-Dental.html", file.Name)
			assert.NotEmpty(t, file.Body)
		})
	}
}
