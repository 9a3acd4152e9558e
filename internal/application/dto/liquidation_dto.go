package dto

import (
	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/domain/allocation"
)

// Tipos de destino de asignación en el boundary HTTP.
// "manual" reemplaza al antiguo identificador centinela del UI: una venta
// directa digitada a mano se pliega al cupo de agricultor antes de validar.
const (
	DestinationRetailer = "retailer"
	DestinationManual   = "manual"
)

// AllocationDestination variante etiquetada de destino: Resolved(code, qty) | Manual(qty).
type AllocationDestination struct {
	Type         string          `json:"type"` // retailer | manual
	RetailerCode string          `json:"retailer_code,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// LiquidationItemRequest asignación reportada para un SKU.
type LiquidationItemRequest struct {
	ProductCode  string                  `json:"product_code"`
	NewBalance   decimal.Decimal         `json:"new_balance"`
	FarmerQty    decimal.Decimal         `json:"farmer_qty"`
	Destinations []AllocationDestination `json:"destinations,omitempty"`
}

// SubmitLiquidationRequest body para POST /api/liquidations (parte "data" del multipart).
type SubmitLiquidationRequest struct {
	DistributorCode string                   `json:"distributor_code"`
	Items           []LiquidationItemRequest `json:"items"`
	Metadata        map[string]string        `json:"metadata,omitempty"`
}

// ProofFile archivo de soporte adjunto a una remisión.
type ProofFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmitLiquidationResponse respuesta de una remisión aceptada.
type SubmitLiquidationResponse struct {
	EntryID string `json:"entry_id"`
}

// ViolationsResponse respuesta 422 con TODAS las violaciones de la remisión.
type ViolationsResponse struct {
	Code       string                 `json:"code"`
	Violations []allocation.Violation `json:"violations"`
}

// UpdateEntryStatusRequest body para POST /api/liquidations/:id/status.
type UpdateEntryStatusRequest struct {
	Status string `json:"status"` // approved | rejected
}
