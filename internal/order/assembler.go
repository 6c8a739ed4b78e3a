package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cbcshop/backend/internal/product"
)

// Requester is the authenticated caller, resolved once per request and passed
// explicitly instead of re-checking token claims at every call site.
type Requester struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

func (r Requester) IsAdmin() bool { return r.Role == "admin" }

// Catalog is the read contract the order pipeline consumes from the product
// module: existence, availability and current pricing by product id.
type Catalog interface {
	FindByProductID(ctx context.Context, productID string) (*product.Product, error)
}

// Assembler turns a placement request into a full Order entity: it validates
// every line item against the live catalog, freezes pricing into snapshots,
// computes the totals and allocates the order id. It performs no persistence.
type Assembler struct {
	catalog Catalog
	alloc   Allocator
}

func NewAssembler(catalog Catalog, alloc Allocator) *Assembler {
	return &Assembler{catalog: catalog, alloc: alloc}
}

func validateRequest(req *PlaceOrderRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalid)
	}
	if strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalid)
	}
	if len(req.Products) == 0 {
		return fmt.Errorf("%w: products must be a non-empty list", ErrInvalid)
	}
	for i, item := range req.Products {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: products[%d].productId is required", ErrInvalid, i)
		}
		if item.Qty <= 0 {
			return fmt.Errorf("%w: products[%d].qty must be a positive integer", ErrInvalid, i)
		}
	}
	if req.ShippingMethod != "" && !validShippingMethod(req.ShippingMethod) {
		return fmt.Errorf("%w: unknown shipping method %q", ErrInvalid, req.ShippingMethod)
	}
	if req.PaymentMethod != "" && !validPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalid, req.PaymentMethod)
	}
	return nil
}

// Assemble builds the order. Every item is validated before anything else
// happens: one unknown or unavailable product aborts the whole order, so
// partial orders can never reach the store.
func (a *Assembler) Assemble(ctx context.Context, req PlaceOrderRequest, requester *Requester) (*Order, error) {
	if requester == nil {
		return nil, ErrNotAuthenticated
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(requester.FirstName + " " + requester.LastName)
	}
	shipping := req.ShippingMethod
	if shipping == "" {
		shipping = ShippingStandard
	}
	payment := req.PaymentMethod
	if payment == "" {
		payment = PaymentCreditCard
	}

	items := make([]LineItem, 0, len(req.Products))
	total := decimal.Zero
	labeledTotal := decimal.Zero

	for _, reqItem := range req.Products {
		p, err := a.catalog.FindByProductID(ctx, reqItem.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, reqItem.ProductID)
			}
			return nil, err
		}
		if !p.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, reqItem.ProductID)
		}

		items = append(items, LineItem{
			ProductInfo: ProductSnapshot{
				ProductID:    p.ProductID,
				Name:         p.Name,
				AltNames:     p.AltNames,
				Description:  p.Description,
				Images:       p.Images,
				LabeledPrice: p.LabelledPrice, // zero when the entry has no list price
				Price:        p.Price,
			},
			Quantity: reqItem.Qty,
		})

		qty := decimal.NewFromInt(int64(reqItem.Qty))
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(qty))
		labeledTotal = labeledTotal.Add(decimal.NewFromFloat(p.LabelledPrice).Mul(qty))
	}

	orderID, err := a.alloc.Next(ctx)
	if err != nil {
		return nil, err
	}

	return &Order{
		OrderID:        orderID,
		Email:          requester.Email,
		Name:           name,
		Address:        req.Address,
		Phone:          req.Phone,
		Status:         StatusPending,
		ShippingMethod: shipping,
		PaymentMethod:  payment,
		Total:          total.InexactFloat64(),
		LabeledTotal:   labeledTotal.InexactFloat64(),
		Products:       items,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
