package domain

import "time"

// ProductSnapshot is the product data captured when a line is added to the
// basket. For guest baskets it can go stale (price changes are not reflected
// until the line is re-added); this staleness is accepted.
type ProductSnapshot struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	PriceKZT float64 `json:"priceKZT"`
	PriceUSD float64 `json:"priceUSD"`
	Image    string  `json:"image,omitempty"`
	SizeIDs  []int64 `json:"sizeIds,omitempty"`
	ColorIDs []int64 `json:"colorIds,omitempty"`
}

// noSelector keeps an absent variant selector distinct from any server id,
// zero included.
const noSelector int64 = -1

// LineKey identifies a basket line: the same product with different variant
// selectors is a different line. Comparable, usable as a map key.
type LineKey struct {
	ProductID int64
	ColorID   int64 // noSelector when absent
	SizeID    int64 // noSelector when absent
}

// BasketLine is one position in a basket, local or remote. ID, UserID and the
// timestamps are server-assigned and zero for guest lines.
type BasketLine struct {
	ID              int64           `json:"id,omitempty"`
	UserID          int64           `json:"userId,omitempty"`
	ProductID       int64           `json:"productId"`
	SelectedColorID *int64          `json:"selectedColorId,omitempty"`
	SelectedSizeID  *int64          `json:"selectedSizeId,omitempty"`
	Quantity        int             `json:"quantity"`
	Product         ProductSnapshot `json:"product"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

func (l BasketLine) Key() LineKey {
	return Key(l.ProductID, l.SelectedColorID, l.SelectedSizeID)
}

// Key builds a LineKey from optional selectors.
func Key(productID int64, colorID, sizeID *int64) LineKey {
	k := LineKey{ProductID: productID, ColorID: noSelector, SizeID: noSelector}
	if colorID != nil {
		k.ColorID = *colorID
	}
	if sizeID != nil {
		k.SizeID = *sizeID
	}
	return k
}

// BasketSummary holds the derived aggregates. The server returns it
// pre-computed for authenticated baskets; guest baskets recompute it on every
// read. Both must agree with SummaryOf over the current lines.
type BasketSummary struct {
	ItemsCount int     `json:"itemsCount"`
	TotalKZT   float64 `json:"totalKZT"`
	TotalUSD   float64 `json:"totalUSD"`
}

// SummaryOf computes aggregates from scratch.
func SummaryOf(lines []BasketLine) BasketSummary {
	var s BasketSummary
	for _, l := range lines {
		s.ItemsCount += l.Quantity
		s.TotalKZT += float64(l.Quantity) * l.Product.PriceKZT
		s.TotalUSD += float64(l.Quantity) * l.Product.PriceUSD
	}
	return s
}
