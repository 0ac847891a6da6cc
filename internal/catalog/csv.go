package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bldriq/internal/encoding"
)

var requiredColumns = []string{"group", "name", "unit", "cost"}

var columnSpellings = map[string]string{
	"group":             "group",
	"category":          "group",
	"name":              "name",
	"scope":             "name",
	"scope of work":     "name",
	"unit":              "unit",
	"unit type":         "unit",
	"unittype":          "unit",
	"cost":              "cost",
	"unit cost":         "cost",
	"default unit cost": "cost",
}

// ParseScopesCSV reads a company scope-of-work spreadsheet. The header row may
// list the columns in any order; row order is kept, since it decides category
// display order. Costs may carry a leading "$" and thousands separators.
func ParseScopesCSV(r io.Reader) ([]ScopeOfWork, error) {
	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8Reader)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var scopes []ScopeOfWork

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if blank(record) {
			continue
		}

		scope, err := parseScopeRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		scopes = append(scopes, scope)
	}

	if len(scopes) == 0 {
		return nil, fmt.Errorf("%w: no scopes in file", ErrInvalidCatalog)
	}

	return scopes, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))

	for i, h := range header {
		key, ok := columnSpellings[strings.ToLower(strings.TrimSpace(h))]
		if ok {
			cols[key] = i
		}
	}

	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrInvalidCatalog, c)
		}
	}

	return cols, nil
}

func parseScopeRecord(record []string, cols map[string]int) (ScopeOfWork, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	name := field("name")
	if name == "" {
		return ScopeOfWork{}, errors.New("empty scope name")
	}

	unit, err := ParseUnitType(field("unit"))
	if err != nil {
		return ScopeOfWork{}, fmt.Errorf("scope %q: %w", name, err)
	}

	rawCost := strings.NewReplacer("$", "", ",", "", " ", "").Replace(field("cost"))

	cost, err := decimal.NewFromString(rawCost)
	if err != nil {
		return ScopeOfWork{}, fmt.Errorf("scope %q: parsing cost %q: %w", name, field("cost"), err)
	}

	return ScopeOfWork{
		Name:            name,
		Unit:            unit,
		DefaultUnitCost: cost,
		Category:        field("group"),
	}, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
