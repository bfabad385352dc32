package domain

import "time"

type CheckoutItem struct {
	ProductID int64   `json:"productId"`
	ColorID   *int64  `json:"colorId,omitempty"`
	SizeID    *int64  `json:"sizeId,omitempty"`
	Quantity  int     `json:"quantity"`
	PriceKZT  float64 `json:"priceKZT"`
	PriceUSD  float64 `json:"priceUSD"`
}

// CheckoutSnapshot is the basket state handed to order submission. It is the
// single seam between the basket engine and the order engine.
type CheckoutSnapshot struct {
	Items      []CheckoutItem `json:"items"`
	TotalKZT   float64        `json:"totalKZT"`
	TotalUSD   float64        `json:"totalUSD"`
	CapturedAt time.Time      `json:"capturedAt"`
}

// SnapshotOf captures the checkout view of the given lines.
func SnapshotOf(lines []BasketLine, now time.Time) CheckoutSnapshot {
	snap := CheckoutSnapshot{CapturedAt: now}
	for _, l := range lines {
		snap.Items = append(snap.Items, CheckoutItem{
			ProductID: l.ProductID,
			ColorID:   l.SelectedColorID,
			SizeID:    l.SelectedSizeID,
			Quantity:  l.Quantity,
			PriceKZT:  l.Product.PriceKZT,
			PriceUSD:  l.Product.PriceUSD,
		})
		snap.TotalKZT += float64(l.Quantity) * l.Product.PriceKZT
		snap.TotalUSD += float64(l.Quantity) * l.Product.PriceUSD
	}
	return snap
}
