package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
	"github.com/jportela/estoque-api/internal/domain/stock"
)

// ReverseMovement anula o efeito de uma movimentação anterior criando um
// estorno compensatório, sem tocar na linha original. Cada original pode ser
// estornada no máximo uma vez (ErrAlreadyReversed na segunda tentativa);
// estornar um estorno é permitido, pois o estorno é uma movimentação nova.
func (uc *UseCase) ReverseMovement(ctx context.Context, accountID int64, actor Actor, in dto.ReverseMovementRequest) (*dto.ReverseMovementResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: justificativa é obrigatória para estorno", domain.ErrInvalidInput)
	}

	var out *dto.ReverseMovementResponse
	err := uc.txRunner.Run(ctx, func(
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// GetByID é filtrado por conta: original de outra conta = não encontrada
		original, err := movementRepo.GetByID(accountID, in.IDOriginalMovement)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrMovementNotFound
		}

		// Bloqueia a linha do produto antes de checar duplicidade: dois
		// estornos concorrentes do mesmo original serializam aqui e o
		// segundo enxerga o estorno do primeiro.
		if _, err := productRepo.GetForUpdate(accountID, original.ProductID); err != nil {
			return err
		}
		existing, err := movementRepo.FindReversal(accountID, original.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyReversed
		}

		movements, err := movementRepo.ListByProduct(accountID, original.ProductID, nil)
		if err != nil {
			return err
		}
		previous := stock.Replay(movements).Balance
		negated := original.Quantity.Neg()

		originalID := original.ID
		reversal := &entity.StockMovement{
			AccountID:            accountID,
			ProductID:            original.ProductID,
			Type:                 entity.MovementTypeEstorno,
			Quantity:             negated,
			UserID:               actor.UserID,
			UserName:             actor.UserName,
			IPAddress:            actor.IPAddress,
			Reason:               reason,
			ReferenceDocument:    original.ReferenceDocument,
			PreviousBalance:      previous,
			CurrentBalance:       previous.Add(negated),
			ReversalOfMovementID: &originalID,
			TransactionID:        uuid.New().String(),
		}
		if err := movementRepo.Append(reversal); err != nil {
			return err
		}

		out = &dto.ReverseMovementResponse{
			ID:                 reversal.ID,
			IDOriginalMovement: original.ID,
			PreviousBalance:    reversal.PreviousBalance,
			CurrentBalance:     reversal.CurrentBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
