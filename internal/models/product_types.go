package models

import "time"

// Product is the model for the 'products' table
type Product struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Slug          string  `json:"slug" db:"slug"`
	Description   *string `json:"description,omitempty" db:"description"`
	Price         float64 `json:"price" db:"price"`
	OriginalPrice float64 `json:"originalPrice" db:"original_price"`
	Discount      float64 `json:"discount" db:"discount"`
	Sold          int     `json:"sold" db:"sold"`
	Rating        float64 `json:"rating" db:"rating"`
	ReviewCount   int     `json:"reviewCount" db:"review_count"`
	Thumbnail     *string `json:"thumbnail,omitempty" db:"thumbnail"`
	IsActive      bool    `json:"isActive" db:"is_active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductVariant is one color/size combination of a product.
type ProductVariant struct {
	ID        int64   `json:"id" db:"id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Color     string  `json:"color" db:"color"`
	Size      string  `json:"size" db:"size"`
	Stock     int     `json:"stock" db:"stock"`
	Image     *string `json:"image,omitempty" db:"image"`
}
