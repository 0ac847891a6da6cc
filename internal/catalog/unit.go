package catalog

import (
	"fmt"
	"strings"
)

// UnitType is the unit a scope of work is priced in.
type UnitType string

const (
	UnitLinearFeet UnitType = "LF"
	UnitSquareFeet UnitType = "SF"
	UnitEach       UnitType = "EA"
	UnitLumpSum    UnitType = "LS"
	UnitMonths     UnitType = "MO"
)

var unitSpellings = map[string]UnitType{
	"lf":          UnitLinearFeet,
	"linear feet": UnitLinearFeet,
	"sqft":        UnitSquareFeet,
	"sf":          UnitSquareFeet,
	"each":        UnitEach,
	"ea":          UnitEach,
	"lump sum":    UnitLumpSum,
	"lumpsum":     UnitLumpSum,
	"ls":          UnitLumpSum,
	"months":      UnitMonths,
	"month":       UnitMonths,
	"mo":          UnitMonths,
}

// ParseUnitType accepts the spellings found in company scope spreadsheets.
func ParseUnitType(s string) (UnitType, error) {
	u, ok := unitSpellings[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown unit type %q", s)
	}

	return u, nil
}

func (u UnitType) Valid() bool {
	switch u {
	case UnitLinearFeet, UnitSquareFeet, UnitEach, UnitLumpSum, UnitMonths:
		return true
	}

	return false
}

// Reasoning explains to an estimator how a quantity in this unit is measured.
func (u UnitType) Reasoning() string {
	switch u {
	case UnitSquareFeet:
		return "Priced by square feet because material and labor scale with the area covered. Multiply length by width of the space."
	case UnitLinearFeet:
		return "Priced by linear feet because cost scales with the length of the installation, not the area. Measure the total length needed."
	case UnitEach:
		return "Priced per unit because every installation is a complete package with materials, labor and connections. Count how many you need."
	case UnitLumpSum:
		return "A flat fee covering this whole scope. The price is fixed regardless of minor variations in project size."
	case UnitMonths:
		return "Priced per month, used for time-based items such as supervision or equipment rental over the project duration."
	}

	return fmt.Sprintf("Priced per %s.", string(u))
}
