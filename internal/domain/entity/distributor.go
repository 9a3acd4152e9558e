package entity

import "time"

// Distributor es el tenedor de stock de primer nivel de la cadena.
// Territory/Region/Zone forman la jerarquía de agregación para métricas.
type Distributor struct {
	ID        string
	Code      string // código único
	Name      string
	Territory string
	Region    string
	Zone      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
