package product

import "time"

// Product is the live catalog entry. Orders copy its pricing fields into
// immutable snapshots at placement time; nothing in the order path reads it
// back afterwards.
type Product struct {
	ProductID   string   `bson:"productId" json:"productId"`
	Name        string   `bson:"name" json:"name"`
	AltNames    []string `bson:"altNames,omitempty" json:"altNames,omitempty"`
	Description string   `bson:"description" json:"description"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	// LabelledPrice is the optional list ("crossed-out") price; zero means none.
	LabelledPrice float64   `bson:"labelledPrice,omitempty" json:"labelledPrice,omitempty"`
	Price         float64   `bson:"price" json:"price"`
	Stock         int       `bson:"stock" json:"stock"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	Views         int64     `bson:"views" json:"views"`
	SalesCount    int64     `bson:"salesCount" json:"salesCount"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	ProductID     string   `json:"productId" example:"CBC-P-0001"`
	Name          string   `json:"name" example:"Hydrating Face Cream"`
	AltNames      []string `json:"altNames"`
	Description   string   `json:"description" example:"50ml jar"`
	Images        []string `json:"images"`
	LabelledPrice float64  `json:"labelledPrice" example:"15"`
	Price         float64  `json:"price" example:"10"`
	Stock         int      `json:"stock" example:"100"`
	IsAvailable   *bool    `json:"isAvailable"`
}

// UpdateProductRequest payload of partial update. Nil fields are left as-is.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	AltNames      *[]string `json:"altNames"`
	Description   *string   `json:"description"`
	Images        *[]string `json:"images"`
	LabelledPrice *float64  `json:"labelledPrice"`
	Price         *float64  `json:"price"`
	Stock         *int      `json:"stock"`
	IsAvailable   *bool     `json:"isAvailable"`
}
