package estimate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/estimate"
)

func TestEffectivePercent(t *testing.T) {
	premium := []catalog.ScaleDiscount{{MinQty: dec("1"), MaxQty: dec("999"), DiscountPercent: dec("-20")}}
	volume := []catalog.ScaleDiscount{
		{MinQty: dec("1"), MaxQty: dec("4"), DiscountPercent: dec("0")},
		{MinQty: dec("5"), MaxQty: dec("9"), DiscountPercent: dec("5")},
		{MinQty: dec("10"), MaxQty: dec("999"), DiscountPercent: dec("10")},
	}
	overlapping := []catalog.ScaleDiscount{
		{MinQty: dec("1"), MaxQty: dec("10"), DiscountPercent: dec("5")},
		{MinQty: dec("5"), MaxQty: dec("20"), DiscountPercent: dec("15")},
	}

	type args struct {
		tiers       []catalog.ScaleDiscount
		conditional bool
		qty         string
		distinct    int
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{name: "ConditionalOneType", args: args{premium, true, "1", 1}, want: "-20"},
		{name: "ConditionalTwoTypes", args: args{premium, true, "1", 2}, want: "-10"},
		{name: "ConditionalThreeTypes", args: args{premium, true, "1", 3}, want: "0"},
		{name: "ConditionalManyTypes", args: args{premium, true, "1", 7}, want: "0"},
		{name: "UnconditionalMarkup", args: args{premium, false, "1", 5}, want: "-20"},
		{name: "NoTierMatches", args: args{premium, true, "0", 1}, want: "0"},
		{name: "VolumeLowTier", args: args{volume, false, "3", 1}, want: "0"},
		{name: "VolumeMidTier", args: args{volume, true, "5", 1}, want: "5"},
		{name: "VolumeTopTier", args: args{volume, false, "12", 4}, want: "10"},
		{name: "FirstOverlapWins", args: args{overlapping, false, "7", 1}, want: "5"},
		{name: "NoTiers", args: args{nil, true, "1", 1}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimate.EffectivePercent(tt.args.tiers, tt.args.conditional, dec(tt.args.qty), tt.args.distinct)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestResolveUnitCost(t *testing.T) {
	assertDecimal(t, "21420", estimate.ResolveUnitCost(dec("17850"), dec("-20")))
	assertDecimal(t, "9500", estimate.ResolveUnitCost(dec("10000"), dec("5")))
	assertDecimal(t, "10000", estimate.ResolveUnitCost(dec("10000"), decimal.Zero))
}

func TestAssemblyItem_SkipsUnknownScopes(t *testing.T) {
	c := defaultCatalog(t)

	a := catalog.Assembly{
		ID:       "kitchenette",
		Name:     "Kitchenette",
		Category: "Breakroom",
		Items: []catalog.AssemblyItem{
			{ScopeName: "Carpet Tile", Quantity: dec("50")},
			{ScopeName: "Upper and Lower Cabinets", Quantity: dec("12")},
		},
	}

	li, err := estimate.AssemblyItem(c, a, dec("2"), 1)
	assert.NoError(t, err)
	assertDecimal(t, "300", li.UnitCost)
	assertDecimal(t, "600", li.Total)
	assert.Equal(t, estimate.KindAssembly, li.Kind)
	assert.False(t, li.Assembly.Footprint.Valid)
	assert.Equal(t, []string{"Upper and Lower Cabinets"}, estimate.MissingScopes(c, a))

	_, err = estimate.AssemblyItem(c, a, dec("-1"), 1)
	assert.ErrorIs(t, err, estimate.ErrInvalidLineItem)
}

func TestCommonAreaAssembly(t *testing.T) {
	a := estimate.CommonAreaAssembly(250)

	assert.Equal(t, estimate.CommonAreaID, a.ID)
	assert.Equal(t, estimate.CommonAreaCategory, a.Category)
	assertDecimal(t, "250", a.SquareFeet.Decimal)

	qty := make(map[string]string)
	for _, it := range a.Items {
		qty[it.ScopeName] = it.Quantity.String()
	}

	// side = round(sqrt(250)) = 16, perimeter 64 LF.
	assert.Equal(t, "640", qty["Interior Paint (include total sqft of wall and ceiling being painted)"])
	assert.Equal(t, "64", qty["Rubber Base"])
	assert.Equal(t, "3", qty["New Troffer Lighting"])
	assert.Equal(t, "250", qty["Carpet Tile"])
}

func TestQuantityHelpers(t *testing.T) {
	assertDecimal(t, "120", estimate.Area(dec("10"), dec("12")))
	assertDecimal(t, "44", estimate.Perimeter(dec("10"), dec("12")))
	assertDecimal(t, "10.5", estimate.Sum(dec("1"), dec("2.5"), dec("7")))
	assertDecimal(t, "0", estimate.Sum())
}
