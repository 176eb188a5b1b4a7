package catalog

type CreateServiceRequest struct {
	Slug            string `json:"slug" validate:"omitempty,max=255"`
	NameEN          string `json:"name_en" validate:"required,max=255"`
	NameHU          string `json:"name_hu" validate:"max=255"`
	DescriptionEN   string `json:"description_en"`
	DescriptionHU   string `json:"description_hu"`
	PriceDefault    int64  `json:"price_default" validate:"required,gt=0"`
	PriceSmall      *int64 `json:"price_small" validate:"omitempty,gt=0"`
	PriceBig        *int64 `json:"price_big" validate:"omitempty,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0,max=720"`
	// Active defaults to true.
	Active *bool `json:"active"`
}

// UpdateServiceRequest changes only the fields that are present.
// ClearPriceSmall / ClearPriceBig drop a size variant.
type UpdateServiceRequest struct {
	Slug            *string `json:"slug" validate:"omitempty,max=255"`
	NameEN          *string `json:"name_en" validate:"omitempty,min=1,max=255"`
	NameHU          *string `json:"name_hu" validate:"omitempty,max=255"`
	DescriptionEN   *string `json:"description_en"`
	DescriptionHU   *string `json:"description_hu"`
	PriceDefault    *int64  `json:"price_default" validate:"omitempty,gt=0"`
	PriceSmall      *int64  `json:"price_small" validate:"omitempty,gt=0"`
	PriceBig        *int64  `json:"price_big" validate:"omitempty,gt=0"`
	ClearPriceSmall bool    `json:"clear_price_small"`
	ClearPriceBig   bool    `json:"clear_price_big"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0,max=720"`
	Active          *bool   `json:"active"`
}
