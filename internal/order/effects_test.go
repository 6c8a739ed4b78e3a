package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordSales_AggregatesPerProduct(t *testing.T) {
	sales := newSalesStub()
	e := NewEffects(sales)

	e.recordSales(&Order{
		OrderID: "CBC00001",
		Products: []LineItem{
			{ProductInfo: ProductSnapshot{ProductID: "P1"}, Quantity: 2},
			{ProductInfo: ProductSnapshot{ProductID: "P2"}, Quantity: 1},
			{ProductInfo: ProductSnapshot{ProductID: "P1"}, Quantity: 3},
		},
	})

	assert.Equal(t, 5, sales.count("P1"), "repeated line items for one product are summed")
	assert.Equal(t, 1, sales.count("P2"))
}

type failingSales struct {
	inner  *salesStub
	failID string
}

func (f *failingSales) IncSalesCount(ctx context.Context, productID string, delta int) error {
	if productID == f.failID {
		return errors.New("write timeout")
	}
	return f.inner.IncSalesCount(ctx, productID, delta)
}

func TestRecordSales_FailureDoesNotStopOtherProducts(t *testing.T) {
	sales := newSalesStub()
	e := NewEffects(&failingSales{inner: sales, failID: "P1"})

	e.recordSales(&Order{
		OrderID: "CBC00001",
		Products: []LineItem{
			{ProductInfo: ProductSnapshot{ProductID: "P1"}, Quantity: 2},
			{ProductInfo: ProductSnapshot{ProductID: "P2"}, Quantity: 4},
		},
	})

	assert.Equal(t, 0, sales.count("P1"))
	assert.Equal(t, 4, sales.count("P2"), "a failed increment is logged, the rest proceed")
}
