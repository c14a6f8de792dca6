package repository

import (
	"time"

	"github.com/jportela/estoque-api/internal/domain/entity"
)

// MovementFilter filtros da listagem paginada de movimentações.
type MovementFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       string // vazio ou "todos" = sem filtro
	ProductID  *int64
	UserID     *int64
	Ascending  bool // true = data_crescente
	PageSize   int  // 10..1000
	PageNumber int  // 1-based
}

// StockMovementRepository porta do armazenamento append-only do razão.
// Não existem operações de update nem delete: a imutabilidade do histórico
// é parte do contrato.
type StockMovementRepository interface {
	// Append persiste uma nova movimentação, atribuindo ID monotônico e
	// DateTime no momento da gravação (preenchidos de volta no struct).
	Append(m *entity.StockMovement) error

	// GetByID busca uma movimentação da conta. Nil quando não existe.
	GetByID(accountID, id int64) (*entity.StockMovement, error)

	// ListByProduct devolve as movimentações do produto em ordem
	// (dateTime, id) ascendente, a ordem usada pelo replay de saldo.
	// asOf não nulo corta em dateTime <= asOf.
	ListByProduct(accountID, productID int64, asOf *time.Time) ([]*entity.StockMovement, error)

	// ListRange lista com filtros e paginação, devolvendo também o total de
	// linhas que casam com o filtro (para paginação na UI).
	ListRange(accountID int64, filter MovementFilter) ([]*entity.StockMovement, int64, error)

	// FindReversal devolve o estorno que referencia a movimentação original,
	// ou nil se ela nunca foi estornada.
	FindReversal(accountID, originalMovementID int64) (*entity.StockMovement, error)
}
