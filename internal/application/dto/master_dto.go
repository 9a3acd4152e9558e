package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Productos ─────────────────────────────────────────────────────────────────

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitLabel string          `json:"unit_label"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest body para PUT /api/products/:code.
type UpdateProductRequest struct {
	Name      string          `json:"name"`
	UnitLabel string          `json:"unit_label"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitLabel string          `json:"unit_label"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ── Distribuidores ────────────────────────────────────────────────────────────

// CreateDistributorRequest body para POST /api/distributors.
type CreateDistributorRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Territory string `json:"territory"`
	Region    string `json:"region"`
	Zone      string `json:"zone"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
}

// DistributorResponse representación HTTP de un distribuidor.
type DistributorResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Territory string    `json:"territory"`
	Region    string    `json:"region"`
	Zone      string    `json:"zone"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ── Agroservicios ─────────────────────────────────────────────────────────────

// CreateRetailerRequest body para POST /api/retailers.
type CreateRetailerRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	OwnerName       string `json:"owner_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Village         string `json:"village,omitempty"`
	DistributorCode string `json:"distributor_code,omitempty"`
}

// RetailerResponse representación HTTP de un agroservicio.
type RetailerResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	OwnerName       string    `json:"owner_name,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Village         string    `json:"village,omitempty"`
	DistributorCode string    `json:"distributor_code,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ── Rectificaciones ───────────────────────────────────────────────────────────

// CreateRectificationRequest body para POST /api/rectifications.
// Solo crea la propuesta; la aprobación es un paso separado que no toca el libro mayor.
type CreateRectificationRequest struct {
	DistributorCode string          `json:"distributor_code"`
	ProductCode     string          `json:"product_code"`
	Field           string          `json:"field"` // balance | liquidated | sales
	ProposedQty     decimal.Decimal `json:"proposed_qty"`
	Reason          string          `json:"reason"`
}
