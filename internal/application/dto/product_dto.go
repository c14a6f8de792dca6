package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body de POST /api/products.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	MinimumLevel decimal.Decimal `json:"minimumLevel"`
}

// ProductResponse um produto do catálogo.
type ProductResponse struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	MinimumLevel decimal.Decimal `json:"minimumLevel"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
}
