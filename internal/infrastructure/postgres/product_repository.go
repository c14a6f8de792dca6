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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, account_id, sku, name, description, minimum_level, active, created_at, updated_at`

// ProductRepo implementação do catálogo de produtos sobre PostgreSQL
// (usável com pool ou tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste um novo produto.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (account_id, sku, name, description, minimum_level, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.AccountID, p.SKU, p.Name, p.Description, p.MinimumLevel, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID busca um produto da conta. Nil quando não existe.
func (r *ProductRepo) GetByID(accountID, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE account_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, accountID, id), "get product")
}

// GetForUpdate busca o produto bloqueando sua linha (SELECT FOR UPDATE).
// É a seção crítica por produto das escritas do razão; produtos diferentes
// bloqueiam linhas diferentes e não se serializam entre si.
func (r *ProductRepo) GetForUpdate(accountID, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE account_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, accountID, id), "get product for update")
}

// ListByAccount lista os produtos ativos da conta, por nome.
func (r *ProductRepo) ListByAccount(accountID int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE account_id = $1 AND active ORDER BY name ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.AccountID, &p.SKU, &p.Name, &p.Description,
			&p.MinimumLevel, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.AccountID, &p.SKU, &p.Name, &p.Description,
		&p.MinimumLevel, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
