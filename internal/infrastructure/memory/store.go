// Package memory fornece implementações em memória dos repositórios e do
// executor transacional, com a mesma semântica de serialização por produto
// do adaptador PostgreSQL. Usado em testes e em execução sem banco.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jportela/estoque-api/internal/application/ledger"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

type productKey struct {
	accountID int64
	productID int64
}

// Store guarda produtos, usuários e o razão de movimentações em memória.
// A tabela de locks por (conta, produto) reproduz o SELECT FOR UPDATE:
// escritas no mesmo produto se serializam, produtos diferentes não.
type Store struct {
	mu             sync.Mutex
	products       map[productKey]*entity.Product
	movements      []*entity.StockMovement
	users          map[int64]*entity.User
	nextProductID  int64
	nextMovementID int64
	nextUserID     int64

	lockMu sync.Mutex
	locks  map[productKey]*sync.Mutex
}

// NewStore cria um Store vazio.
func NewStore() *Store {
	return &Store{
		products: make(map[productKey]*entity.Product),
		users:    make(map[int64]*entity.User),
		locks:    make(map[productKey]*sync.Mutex),
	}
}

func (s *Store) productLock(k productKey) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[k]
	if !ok {
		l = &sync.Mutex{}
		s.locks[k] = l
	}
	return l
}

var _ ledger.TxRunner = (*Store)(nil)

// Run executa fn com repositórios transacionais. Appends ficam pendentes até
// o commit; um erro de fn descarta tudo. Locks de produto adquiridos via
// GetForUpdate são mantidos até o fim, como numa transação de banco.
func (s *Store) Run(ctx context.Context, fn func(
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx := &txState{store: s, held: make(map[productKey]*sync.Mutex)}
	defer tx.release()

	if err := fn(&MovementRepo{store: s, tx: tx}, &ProductRepo{store: s, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// txState acumula os appends de uma transação e os locks de produto em posse.
type txState struct {
	store   *Store
	pending []*entity.StockMovement
	held    map[productKey]*sync.Mutex
}

func (t *txState) lockProduct(k productKey) {
	if _, ok := t.held[k]; ok {
		return
	}
	l := t.store.productLock(k)
	l.Lock()
	t.held[k] = l
}

// append atribui ID e date_time na hora (como uma sequence, IDs de transações
// abortadas ficam de fora) e deixa a linha pendente até o commit.
func (t *txState) append(m *entity.StockMovement) {
	t.store.mu.Lock()
	t.store.nextMovementID++
	m.ID = t.store.nextMovementID
	t.store.mu.Unlock()
	if m.DateTime.IsZero() {
		m.DateTime = time.Now().UTC()
	}
	t.pending = append(t.pending, m)
}

func (t *txState) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.movements = append(t.store.movements, t.pending...)
	t.pending = nil
}

func (t *txState) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = map[productKey]*sync.Mutex{}
}
