package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationLine recuento físico de un SKU en un agroservicio.
// Variance = Actual − Expected (negativa cuando falta stock).
type VerificationLine struct {
	ProductCode string          `bson:"product_code" json:"product_code"`
	ExpectedQty decimal.Decimal `bson:"expected_qty" json:"expected_qty"`
	ActualQty   decimal.Decimal `bson:"actual_qty" json:"actual_qty"`
	VarianceQty decimal.Decimal `bson:"variance_qty" json:"variance_qty"`
}

// RetailerVerification es la evidencia append-only de un recuento físico.
// Se persiste siempre, incluso cuando todas las varianzas son cero.
type RetailerVerification struct {
	ID              string             `bson:"_id" json:"id"`
	RetailerCode    string             `bson:"retailer_code" json:"retailer_code"`
	DistributorCode string             `bson:"distributor_code" json:"distributor_code"`
	VerifiedBy      string             `bson:"verified_by" json:"verified_by"`
	VerifiedAt      time.Time          `bson:"verified_at" json:"verified_at"`
	Lines           []VerificationLine `bson:"lines" json:"lines"`
	ProofURLs       []string           `bson:"proof_urls,omitempty" json:"proof_urls,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Latitude        float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude       float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
}
