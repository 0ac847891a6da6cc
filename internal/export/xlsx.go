package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	budgetSheet    = "Budget"
	breakdownSheet = "Breakdown"
	moneyFormat    = `"$"#,##0.00`
)

type xlsxStyles struct {
	title, muted, header, body, money, label, total, totalMoney int
}

// XLSX renders the budget as a workbook: line items and waterfall on one
// sheet, the category breakdown on another. Amounts are numeric cells so
// the estimator can keep working with them.
func XLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), budgetSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	st, err := newXLSXStyles(f)
	if err != nil {
		return nil, err
	}

	for c, w := range map[string]float64{"A": 6, "B": 48, "C": 10, "D": 8, "E": 14, "F": 16, "G": 40} {
		if err := f.SetColWidth(budgetSheet, c, c, w); err != nil {
			return nil, fmt.Errorf("setting column width %s: %w", c, err)
		}
	}

	w := &sheetWriter{f: f, sheet: budgetSheet}

	w.set("A1", sanitizeExcelCell(doc.Title), st.title)

	r := 2
	for _, line := range []string{doc.Address, doc.GCCompanyName, "Status: " + doc.Status, "Generated " + doc.GeneratedAt.Format("2006-01-02")} {
		if line == "" {
			continue
		}

		w.set(cell("A", r), sanitizeExcelCell(line), st.muted)
		r++
	}

	if doc.TotalSqft.IsPositive() {
		w.set(cell("A", r), "Total SF", st.muted)
		w.set(cell("B", r), doc.TotalSqft.InexactFloat64(), st.muted)
		r++
	}

	r++

	for i, h := range []string{"#", "Scope", "Qty", "Unit", "Unit Cost", "Total", "Notes"} {
		w.set(cell(string(rune('A'+i)), r), h, st.header)
	}

	r++

	for _, row := range doc.Rows {
		w.set(cell("A", r), row.Index, st.body)
		w.set(cell("B", r), sanitizeExcelCell(row.Name), st.body)
		w.set(cell("C", r), row.Quantity.InexactFloat64(), st.body)
		w.set(cell("D", r), row.Unit, st.body)
		w.set(cell("E", r), row.UnitCost.InexactFloat64(), st.money)
		w.set(cell("F", r), row.Total.InexactFloat64(), st.money)
		w.set(cell("G", r), sanitizeExcelCell(row.Notes), st.body)
		r++
	}

	r++

	for _, s := range doc.Stages {
		label, value := st.label, st.money
		if s.Total {
			label, value = st.total, st.totalMoney
		}

		w.set(cell("E", r), s.Label, label)
		w.set(cell("F", r), s.Amount.InexactFloat64(), value)
		r++
	}

	w.set(cell("E", r), "Range low (-15%)", st.label)
	w.set(cell("F", r), doc.RangeLow.InexactFloat64(), st.money)
	r++

	w.set(cell("E", r), "Range high (+15%)", st.label)
	w.set(cell("F", r), doc.RangeHigh.InexactFloat64(), st.money)
	r++

	if doc.CostPerSqft.Valid {
		w.set(cell("E", r), "Cost per SF", st.label)
		w.set(cell("F", r), doc.CostPerSqft.Decimal.InexactFloat64(), st.money)
		r++
	}

	r++
	w.set(cell("A", r), Disclaimer, st.muted)

	if err := writeBreakdown(f, doc, st); err != nil {
		return nil, err
	}

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}

	return buf.Bytes(), nil
}

func writeBreakdown(f *excelize.File, doc Document, st xlsxStyles) error {
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return fmt.Errorf("adding breakdown sheet: %w", err)
	}

	if err := f.SetColWidth(breakdownSheet, "A", "A", 32); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	w := &sheetWriter{f: f, sheet: breakdownSheet}
	w.set("A1", "Category", st.header)
	w.set("B1", "Amount", st.header)

	for i, c := range doc.Breakdown {
		r := i + 2

		swatch, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{c.Color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("creating swatch style: %w", err)
		}

		w.set(cell("A", r), sanitizeExcelCell(c.Name), st.body)
		w.set(cell("B", r), c.Value.InexactFloat64(), st.money)
		w.set(cell("C", r), "", swatch)
	}

	return w.err
}

// sheetWriter keeps the first error so rows can be written without checking
// each cell.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(ref string, v any, style int) {
	if w.err != nil {
		return
	}

	if err := w.f.SetCellValue(w.sheet, ref, v); err != nil {
		w.err = fmt.Errorf("setting %s!%s: %w", w.sheet, ref, err)
		return
	}

	if err := w.f.SetCellStyle(w.sheet, ref, ref, style); err != nil {
		w.err = fmt.Errorf("styling %s!%s: %w", w.sheet, ref, err)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	moneyFmt := moneyFormat

	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 16}},
		{Font: &excelize.Font{Size: 10, Color: "#6C757D"}},
		{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		},
		{Font: &excelize.Font{Size: 10}, Border: thinBorders()},
		{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt},
		{Font: &excelize.Font{Size: 11}, Alignment: &excelize.Alignment{Horizontal: "right"}},
		{Font: &excelize.Font{Bold: true, Size: 12}, Alignment: &excelize.Alignment{Horizontal: "right"}},
		{Font: &excelize.Font{Bold: true, Size: 12}, CustomNumFmt: &moneyFmt},
	}

	var st xlsxStyles

	targets := []*int{&st.title, &st.muted, &st.header, &st.body, &st.money, &st.label, &st.total, &st.totalMoney}

	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return xlsxStyles{}, fmt.Errorf("creating style: %w", err)
		}

		*targets[i] = id
	}

	return st, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}

	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}

	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))

	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}

	return borders
}
