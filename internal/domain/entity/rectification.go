package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRectification es una propuesta de corrección pendiente. No toca el libro
// mayor hasta un paso de aprobación separado.
type StockRectification struct {
	ID              string          `bson:"_id" json:"id"`
	DistributorCode string          `bson:"distributor_code" json:"distributor_code"`
	ProductCode     string          `bson:"product_code" json:"product_code"`
	Field           string          `bson:"field" json:"field"` // balance | liquidated | sales
	CurrentQty      decimal.Decimal `bson:"current_qty" json:"current_qty"`
	ProposedQty     decimal.Decimal `bson:"proposed_qty" json:"proposed_qty"`
	Reason          string          `bson:"reason" json:"reason"`
	Status          string          `bson:"status" json:"status"` // pending | approved | rejected
	RequestedBy     string          `bson:"requested_by" json:"requested_by"`
	RequestedAt     time.Time       `bson:"requested_at" json:"requested_at"`
}
