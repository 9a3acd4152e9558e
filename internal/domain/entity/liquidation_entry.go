package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación de un acta de liquidación.
// Los renglones nunca cambian después de creados; solo el estado transiciona.
const (
	EntryStatusPending  = "pending"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

// Origen de un acta de liquidación.
const (
	EntrySourceRealtime = "realtime" // reporte de campo en tiempo real
	EntrySourceBulk     = "bulk"     // reconstrucción desde carga histórica
)

// RetailerLine destino de transferencia dentro de un renglón de liquidación.
type RetailerLine struct {
	RetailerCode string          `bson:"retailer_code" json:"retailer_code"`
	RetailerName string          `bson:"retailer_name,omitempty" json:"retailer_name,omitempty"`
	Quantity     decimal.Decimal `bson:"quantity" json:"quantity"`
}

// LiquidationItem renglón por SKU de un acta de liquidación.
type LiquidationItem struct {
	ProductCode  string          `bson:"product_code" json:"product_code"`
	OpeningQty   decimal.Decimal `bson:"opening_qty" json:"opening_qty"` // balance previo al reporte
	BalanceQty   decimal.Decimal `bson:"balance_qty" json:"balance_qty"` // balance reportado
	FarmerQty    decimal.Decimal `bson:"farmer_qty" json:"farmer_qty"`   // liquidado a agricultor
	FarmerAmount decimal.Decimal `bson:"farmer_amount" json:"farmer_amount"`
	RetailerQty  decimal.Decimal `bson:"retailer_qty" json:"retailer_qty"` // total transferido a agroservicios
	Retailers    []RetailerLine  `bson:"retailers,omitempty" json:"retailers,omitempty"`
	UnitPrice    decimal.Decimal `bson:"unit_price" json:"unit_price"`
}

// LiquidationEntry es el acta de auditoría inmutable de una liquidación.
// Se persiste como documento append-only; solo Status transiciona después.
type LiquidationEntry struct {
	ID              string            `bson:"_id" json:"id"`
	DistributorCode string            `bson:"distributor_code" json:"distributor_code"`
	SubmittedBy     string            `bson:"submitted_by" json:"submitted_by"`
	SubmittedAt     time.Time         `bson:"submitted_at" json:"submitted_at"`
	EntryDate       time.Time         `bson:"entry_date" json:"entry_date"` // fecha contable; en cargas históricas difiere de SubmittedAt
	Items           []LiquidationItem `bson:"items" json:"items"`
	ProofURLs       []string          `bson:"proof_urls,omitempty" json:"proof_urls,omitempty"`
	SignatureURL    string            `bson:"signature_url,omitempty" json:"signature_url,omitempty"`
	Metadata        map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Status          string            `bson:"status" json:"status"`
	ReviewedBy      string            `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	Source          string            `bson:"source" json:"source"`
	InvoiceRef      string            `bson:"invoice_ref,omitempty" json:"invoice_ref,omitempty"` // id sintetizado en cargas históricas
}
