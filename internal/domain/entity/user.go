package entity

import "time"

// Roles de la aplicación.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RolePromotor   = "promotor" // usuario de campo que reporta liquidaciones
)

// User usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Territory    string // alcance geográfico para filtros
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
