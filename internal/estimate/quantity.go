package estimate

import "github.com/shopspring/decimal"

// Area is the square footage of an l by w room.
func Area(l, w decimal.Decimal) decimal.Decimal {
	return l.Mul(w)
}

// Perimeter is the linear footage around an l by w room.
func Perimeter(l, w decimal.Decimal) decimal.Decimal {
	return l.Add(w).Mul(two)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}
