package repository

import "github.com/jportela/estoque-api/internal/domain/entity"

// UserRepository porta de usuários (atribuição de autoria das movimentações).
type UserRepository interface {
	Create(u *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndAccount(email string, accountID int64) (*entity.User, error)
	GetByID(id int64) (*entity.User, error)
}
