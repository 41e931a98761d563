package models

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type ProductImage struct {
	ID               int64     `json:"id"`
	FileName         string    `json:"fileName"`
	OriginalFileName string    `json:"originalFileName"`
	ContentType      string    `json:"contentType"`
	FileSize         int64     `json:"fileSize"`
	ImageURL         string    `json:"imageUrl"`
	IsPrimary        bool      `json:"isPrimary"`
	DisplayOrder     int       `json:"displayOrder"`
	UploadedAt       Timestamp `json:"uploadedAt"`
}

type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	StockQuantity   int             `json:"stockQuantity"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	SKU             string          `json:"sku"`
	Specifications  string          `json:"specifications,omitempty"`
	Weight          float64         `json:"weight,omitempty"`
	Dimensions      string          `json:"dimensions,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
	Category        *Category       `json:"category,omitempty"`
	Images          []ProductImage  `json:"images"`
	PrimaryImageURL string          `json:"primaryImageUrl,omitempty"`
}

// PrimaryImage returns the image the server flagged as primary, if any.
func (p *Product) PrimaryImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	return ProductImage{}, false
}

// ProductRequest is the admin create/update payload.
type ProductRequest struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stockQuantity" validate:"min=0"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	SKU            string          `json:"sku"`
	Specifications string          `json:"specifications,omitempty"`
	Weight         float64         `json:"weight,omitempty" validate:"min=0"`
	Dimensions     string          `json:"dimensions,omitempty"`
	IsActive       *bool           `json:"isActive,omitempty"`
	CategoryID     int64           `json:"categoryId" validate:"required"`
}

// ProductFilter holds the optional criteria of /api/products/filter.
// Zero values are not sent.
type ProductFilter struct {
	Name       string
	Brand      string
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	IsActive   *bool
}
