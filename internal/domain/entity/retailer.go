package entity

import "time"

// Retailer (agroservicio) es el vendedor de segundo nivel que recibe stock
// transferido desde un distribuidor.
type Retailer struct {
	ID              string
	Code            string // código único
	Name            string
	OwnerName       string
	Phone           string
	Village         string
	DistributorCode string // distribuidor que lo registró por primera vez
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
