package order

import "time"

const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

const (
	PaymentCreditCard     = "credit_card"
	PaymentPayPal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func validShippingMethod(s string) bool {
	return s == ShippingStandard || s == ShippingExpress
}

func validPaymentMethod(s string) bool {
	switch s {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

// ProductSnapshot is a denormalized copy of the catalog entry as it existed at
// order time. It is never re-read from the live catalog: the order is the
// financial record, and later catalog edits must not change it.
type ProductSnapshot struct {
	ProductID   string   `bson:"productId" json:"productId"`
	Name        string   `bson:"name" json:"name"`
	AltNames    []string `bson:"altNames,omitempty" json:"altNames,omitempty"`
	Description string   `bson:"description" json:"description"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	// LabeledPrice is the list price at order time; zero when the catalog
	// entry had none.
	LabeledPrice float64 `bson:"labeledPrice" json:"labeledPrice"`
	Price        float64 `bson:"price" json:"price"`
}

type LineItem struct {
	ProductInfo ProductSnapshot `bson:"productInfo" json:"productInfo"`
	Quantity    int             `bson:"quantity" json:"quantity"`
}

// Order is the persisted transaction record. Apart from Status and Notes,
// every field is write-once at creation.
type Order struct {
	OrderID        string     `bson:"orderId" json:"orderId"`
	Email          string     `bson:"email" json:"email"`
	Name           string     `bson:"name" json:"name"`
	Address        string     `bson:"address" json:"address"`
	Phone          string     `bson:"phone" json:"phone"`
	Status         string     `bson:"status" json:"status"`
	ShippingMethod string     `bson:"shippingMethod" json:"shippingMethod"`
	PaymentMethod  string     `bson:"paymentMethod" json:"paymentMethod"` // label only, no settlement
	LabeledTotal   float64    `bson:"labeledTotal" json:"labeledTotal"`
	Total          float64    `bson:"total" json:"total"`
	Products       []LineItem `bson:"products" json:"products"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}
