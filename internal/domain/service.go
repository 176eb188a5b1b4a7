package domain

import "time"

// Service is a grooming service offered by the salon.
// Prices are whole forints.
type Service struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	NameEN          string    `json:"name_en"`
	NameHU          string    `json:"name_hu"`
	DescriptionEN   string    `json:"description_en"`
	DescriptionHU   string    `json:"description_hu"`
	PriceDefault    int64     `json:"price_default"`
	PriceSmall      *int64    `json:"price_small,omitempty"`
	PriceBig        *int64    `json:"price_big,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Photo           string    `json:"photo,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// PriceFor returns the size variant price, or the default price when the
// variant is not offered.
func (s *Service) PriceFor(size DogSize) int64 {
	switch size {
	case DogSizeSmall:
		if s.PriceSmall != nil {
			return *s.PriceSmall
		}
	case DogSizeBig:
		if s.PriceBig != nil {
			return *s.PriceBig
		}
	}
	return s.PriceDefault
}

func (s *Service) Name(lang string) string {
	if lang == "hu" && s.NameHU != "" {
		return s.NameHU
	}
	return s.NameEN
}

func (s *Service) Description(lang string) string {
	if lang == "hu" && s.DescriptionHU != "" {
		return s.DescriptionHU
	}
	return s.DescriptionEN
}
