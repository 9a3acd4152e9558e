package dto

import "github.com/shopspring/decimal"

// VerificationLineRequest recuento físico reportado para un SKU.
type VerificationLineRequest struct {
	ProductCode string          `json:"product_code"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	ActualQty   decimal.Decimal `json:"actual_qty"`
}

// RecordVerificationRequest body para POST /api/verifications.
type RecordVerificationRequest struct {
	RetailerCode    string                    `json:"retailer_code"`
	DistributorCode string                    `json:"distributor_code"`
	Lines           []VerificationLineRequest `json:"lines"`
	ProofURLs       []string                  `json:"proof_urls,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	Latitude        float64                   `json:"latitude,omitempty"`
	Longitude       float64                   `json:"longitude,omitempty"`
}

// RecordVerificationResponse respuesta con el acta creada.
type RecordVerificationResponse struct {
	VerificationID string `json:"verification_id"`
	AdjustedSKUs   int    `json:"adjusted_skus"` // SKUs con varianza distinta de cero
}
