package memory

import (
	"sort"
	"time"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo lê e grava no razão em memória. Com tx os appends ficam
// pendentes até o commit e as leituras enxergam o pendente da própria tx.
type MovementRepo struct {
	store *Store
	tx    *txState
}

// NewMovementRepository devolve o repositório fora de transação (leituras e
// appends imediatos).
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Append(m *entity.StockMovement) error {
	if m.ReversalOfMovementID != nil {
		existing, err := r.FindReversal(m.AccountID, *m.ReversalOfMovementID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyReversed
		}
	}
	if r.tx != nil {
		r.tx.append(m)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextMovementID++
	m.ID = r.store.nextMovementID
	if m.DateTime.IsZero() {
		m.DateTime = time.Now().UTC()
	}
	r.store.movements = append(r.store.movements, m)
	return nil
}

func (r *MovementRepo) GetByID(accountID, id int64) (*entity.StockMovement, error) {
	for _, m := range r.visible() {
		if m.AccountID == accountID && m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) ListByProduct(accountID, productID int64, asOf *time.Time) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.visible() {
		if m.AccountID != accountID || m.ProductID != productID {
			continue
		}
		if asOf != nil && m.DateTime.After(*asOf) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	sortMovements(list, true)
	return list, nil
}

func (r *MovementRepo) ListRange(accountID int64, f repository.MovementFilter) ([]*entity.StockMovement, int64, error) {
	var matched []*entity.StockMovement
	for _, m := range r.visible() {
		if m.AccountID != accountID {
			continue
		}
		if f.StartDate != nil && m.DateTime.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && m.DateTime.After(*f.EndDate) {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.UserID != nil && m.UserID != *f.UserID {
			continue
		}
		c := *m
		matched = append(matched, &c)
	}
	sortMovements(matched, f.Ascending)

	total := int64(len(matched))
	start := (f.PageNumber - 1) * f.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MovementRepo) FindReversal(accountID, originalMovementID int64) (*entity.StockMovement, error) {
	for _, m := range r.visible() {
		if m.AccountID == accountID && m.ReversalOfMovementID != nil && *m.ReversalOfMovementID == originalMovementID {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

// visible devolve o razão comitado mais, dentro de uma tx, os appends
// pendentes dela.
func (r *MovementRepo) visible() []*entity.StockMovement {
	r.store.mu.Lock()
	committed := make([]*entity.StockMovement, len(r.store.movements))
	copy(committed, r.store.movements)
	r.store.mu.Unlock()
	if r.tx == nil {
		return committed
	}
	return append(committed, r.tx.pending...)
}

// sortMovements ordena por (date_time, id), a mesma ordem do replay.
func sortMovements(list []*entity.StockMovement, ascending bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !ascending {
			a, b = b, a
		}
		if !a.DateTime.Equal(b.DateTime) {
			return a.DateTime.Before(b.DateTime)
		}
		return a.ID < b.ID
	})
}
