package order

import (
	"context"
	"log"
	"time"
)

// SalesRecorder is the atomic per-product counter the post-commit effect
// writes to.
type SalesRecorder interface {
	IncSalesCount(ctx context.Context, productID string, delta int) error
}

// Effects runs best-effort side effects after an order is committed. They are
// fire-and-forget relative to the client response: a failure is logged and the
// already-created order stands.
type Effects struct {
	sales   SalesRecorder
	timeout time.Duration
}

func NewEffects(sales SalesRecorder) *Effects {
	return &Effects{sales: sales, timeout: 10 * time.Second}
}

// OrderPlaced dispatches the sales-count update without blocking the caller.
func (e *Effects) OrderPlaced(o *Order) {
	go e.recordSales(o)
}

func (e *Effects) recordSales(o *Order) {
	// Detached from the request context: the response has already committed.
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	counts := make(map[string]int)
	for _, item := range o.Products {
		counts[item.ProductInfo.ProductID] += item.Quantity
	}
	for productID, qty := range counts {
		if err := e.sales.IncSalesCount(ctx, productID, qty); err != nil {
			log.Printf("[order] sales count update failed order=%s product=%s: %v",
				o.OrderID, productID, err)
		}
	}
}
