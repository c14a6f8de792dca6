package ledger

import (
	"context"
	"time"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante atomicidade leitura-de-saldo →
// append para o motor do razão: nenhuma movimentação parcial é persistida.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Actor identidade já resolvida pelo middleware de auth, gravada como
// autoria em cada movimentação. Opaca para a lógica de saldo.
type Actor struct {
	UserID    int64
	UserName  string
	IPAddress string
}

// ShortageReportGenerator gera a representação em PDF da listagem de
// produtos em falta.
type ShortageReportGenerator interface {
	GenerateShortageReport(ctx context.Context, accountID int64, generatedAt time.Time, rows []dto.ShortageRow) ([]byte, error)
}
