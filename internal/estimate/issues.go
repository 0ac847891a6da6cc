package estimate

import (
	"fmt"

	"github.com/google/uuid"
)

type IssueKind string

const (
	IssueZeroQuantity IssueKind = "zero_quantity"
	IssueUnpriced     IssueKind = "unpriced"
)

// Issue flags a line item for review. Issues never block a calculation.
type Issue struct {
	ItemID    uuid.UUID `json:"item_id"`
	ScopeName string    `json:"scope_name"`
	Kind      IssueKind `json:"kind"`
	Message   string    `json:"message"`
}

func Issues(items []LineItem) []Issue {
	var out []Issue

	for _, it := range items {
		if it.Unpriced {
			out = append(out, Issue{
				ItemID:    it.ID,
				ScopeName: it.ScopeName,
				Kind:      IssueUnpriced,
				Message:   fmt.Sprintf("%q is not in the scope catalog; enter a unit cost", it.ScopeName),
			})
		}

		if it.Quantity.IsZero() {
			out = append(out, Issue{
				ItemID:    it.ID,
				ScopeName: it.ScopeName,
				Kind:      IssueZeroQuantity,
				Message:   fmt.Sprintf("%q has a quantity of 0", it.ScopeName),
			})
		}
	}

	return out
}
