package models

import "time"

type Product struct {
	ID          string    `json:"product_id" db:"product_id"`
	Name        string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	Subcategory string    `json:"subcategory,omitempty" db:"subcategory"`
	Price       float64   `json:"price" db:"price" validate:"min=0"`
	Brand       string    `json:"brand,omitempty" db:"brand"`
	Rating      float64   `json:"rating" db:"rating" validate:"min=0,max=5"`
	EmotionTags []string  `json:"emotion_tags,omitempty" db:"emotion_tags"`
	Features    []string  `json:"features,omitempty" db:"features"`
	Color       string    `json:"color,omitempty" db:"color"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type ProductListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product,omitempty"`
}
