package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord venta mensual reconstruida por la ingesta masiva de históricos.
// InvoiceID se sintetiza como distribuidor/mes/año; Date es el último día del mes.
type SalesRecord struct {
	ID              string          `bson:"_id" json:"id"`
	InvoiceID       string          `bson:"invoice_id" json:"invoice_id"`
	DistributorCode string          `bson:"distributor_code" json:"distributor_code"`
	ProductCode     string          `bson:"product_code" json:"product_code"`
	Quantity        decimal.Decimal `bson:"quantity" json:"quantity"`
	Amount          decimal.Decimal `bson:"amount" json:"amount"`
	Date            time.Time       `bson:"date" json:"date"`
	CreatedBy       string          `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}
