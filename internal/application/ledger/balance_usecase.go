package ledger

import (
	"context"
	"time"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/stock"
)

// Balance deriva o saldo autoritativo do produto, opcionalmente na data de
// referência, junto com o histórico que o sustenta e o resultado da
// verificação de integridade (reportada, nunca corrigida).
//
// Produto inexistente → ErrProductNotFound. Produto existente sem histórico
// não é erro: saldo zero, lastUpdate nulo, integridade ok.
func (uc *UseCase) Balance(ctx context.Context, accountID, productID int64, referenceDate *time.Time) (*dto.BalanceResponse, error) {
	product, err := uc.productRepo.GetByID(accountID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	movements, err := uc.movementRepo.ListByProduct(accountID, productID, referenceDate)
	if err != nil {
		return nil, err
	}

	replay := stock.Replay(movements)
	status := stock.Classify(replay.Balance, product.MinimumLevel)

	out := &dto.BalanceResponse{
		IDProduct:               productID,
		CalculatedBalance:       replay.Balance,
		LastUpdate:              replay.LastMovementAt,
		StockStatus:             status,
		MinimumLevel:            product.MinimumLevel,
		PercentageOfMinimum:     stock.PercentOfMinimum(replay.Balance, product.MinimumLevel),
		MovementHistory:         make([]dto.MovementResponse, 0, len(movements)),
		IntegrityCheck:          replay.IntegrityOK,
		InconsistenciesDetected: replay.Inconsistencies,
	}
	for _, m := range movements {
		out.MovementHistory = append(out.MovementHistory, toMovementResponse(m))
	}
	return out, nil
}
