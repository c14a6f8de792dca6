package memory

import (
	"sort"
	"time"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de produtos em memória.
type ProductRepo struct {
	store *Store
	tx    *txState
}

// NewProductRepository devolve o repositório fora de transação.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(p *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.products {
		if existing.AccountID == p.AccountID && existing.SKU == p.SKU {
			return domain.ErrConflict
		}
	}
	r.store.nextProductID++
	p.ID = r.store.nextProductID
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	c := *p
	r.store.products[productKey{p.AccountID, p.ID}] = &c
	return nil
}

func (r *ProductRepo) GetByID(accountID, id int64) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productKey{accountID, id}]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// GetForUpdate adquire o lock do produto na tabela de locks antes de ler,
// segurando-o até o fim da transação.
func (r *ProductRepo) GetForUpdate(accountID, id int64) (*entity.Product, error) {
	if r.tx != nil {
		r.tx.lockProduct(productKey{accountID, id})
	}
	return r.GetByID(accountID, id)
}

func (r *ProductRepo) ListByAccount(accountID int64) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.store.products {
		if p.AccountID == accountID && p.Active {
			c := *p
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
