package slider

// Slider is a promotional banner on the storefront.
type Slider struct {
	SliderID string `bson:"sliderId" json:"sliderId"`
	Title    string `bson:"title" json:"title"`
	Subtitle string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	ImageURL string `bson:"imageUrl" json:"imageUrl"`
	Link     string `bson:"link,omitempty" json:"link,omitempty"`
	IsActive bool   `bson:"isActive" json:"isActive"`
	// Order is the storefront sort position, ascending.
	Order int `bson:"order" json:"order"`
}

// CreateSliderRequest payload of creation.
// swagger:model CreateSliderRequest
type CreateSliderRequest struct {
	SliderID string `json:"sliderId"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
	IsActive *bool  `json:"isActive"`
	Order    int    `json:"order"`
}

// UpdateSliderRequest payload of partial update. Nil fields are left as-is.
// swagger:model UpdateSliderRequest
type UpdateSliderRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	ImageURL *string `json:"imageUrl"`
	Link     *string `json:"link"`
	IsActive *bool   `json:"isActive"`
	Order    *int    `json:"order"`
}
