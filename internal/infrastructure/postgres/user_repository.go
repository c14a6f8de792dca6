package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, account_id, email, password_hash, name, role, status, created_at, updated_at`

// UserRepo implementação de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste um novo usuário.
func (r *UserRepo) Create(u *entity.User) error {
	query := `
		INSERT INTO users (account_id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		u.AccountID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail busca por email (login). Nil quando não existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.q.QueryRow(context.Background(), query, email), "find user by email")
}

// GetByEmailAndAccount busca por email dentro de uma conta.
func (r *UserRepo) GetByEmailAndAccount(email string, accountID int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND account_id = $2`
	return scanUser(r.q.QueryRow(context.Background(), query, email, accountID), "get user by email and account")
}

// GetByID busca um usuário por ID.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(context.Background(), query, id), "get user")
}

func scanUser(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.AccountID, &u.Email, &u.PasswordHash, &u.Name,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
