package entity

import "time"

// Papéis válidos para User.
const (
	RoleAdmin      = "admin"
	RoleEstoquista = "estoquista"
	RoleVendedor   = "vendedor"
)

// User representa um usuário do sistema (pertence a uma conta).
type User struct {
	ID           int64
	AccountID    int64
	Email        string
	PasswordHash string // hash bcrypt, nunca em claro no domínio após persistir
	Name         string
	Role         string // admin, estoquista, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
