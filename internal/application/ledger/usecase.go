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

// UseCase orquestra as cinco operações do razão de estoque (criar, listar,
// saldo, estornar, varredura de falta). Escritas passam pelo TxRunner com
// bloqueio da linha do produto (SELECT FOR UPDATE), de modo que no máximo
// uma operação mutante por produto enxerga o saldo por vez; produtos
// diferentes nunca se bloqueiam.
type UseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
	reportGen    ShortageReportGenerator
}

// NewUseCase constrói o caso de uso. reportGen pode ser nil quando o
// relatório PDF não for exposto.
func NewUseCase(
	txRunner TxRunner,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	reportGen ShortageReportGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		reportGen:    reportGen,
	}
}

// CreateMovement valida e persiste uma nova movimentação, congelando os
// saldos anterior e atual calculados sob o bloqueio por produto.
func (uc *UseCase) CreateMovement(ctx context.Context, accountID int64, actor Actor, in dto.CreateMovementRequest) (*dto.CreateMovementResponse, error) {
	movementType := entity.NormalizeMovementType(in.MovementType)
	if !entity.IsUserFacingType(movementType) {
		return nil, fmt.Errorf("%w: tipo de movimentação inválido %q", domain.ErrInvalidInput, in.MovementType)
	}
	reason := ""
	if in.Reason != nil {
		reason = strings.TrimSpace(*in.Reason)
	}
	if entity.RequiresReason(movementType) && reason == "" {
		return nil, fmt.Errorf("%w: justificativa é obrigatória para %s", domain.ErrInvalidInput, movementType)
	}
	signed, err := stock.SignQuantity(movementType, in.Quantity)
	if err != nil {
		return nil, err
	}
	refDoc := ""
	if in.ReferenceDocument != nil {
		refDoc = strings.TrimSpace(*in.ReferenceDocument)
	}

	var out *dto.CreateMovementResponse
	err = uc.txRunner.Run(ctx, func(
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloqueia a linha do produto: ponto de serialização por produto
		product, err := productRepo.GetForUpdate(accountID, in.IDProduct)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		movements, err := movementRepo.ListByProduct(accountID, in.IDProduct, nil)
		if err != nil {
			return err
		}
		previous := stock.Replay(movements).Balance
		current := previous.Add(signed)

		mov := &entity.StockMovement{
			AccountID:         accountID,
			ProductID:         in.IDProduct,
			Type:              movementType,
			Quantity:          signed,
			UserID:            actor.UserID,
			UserName:          actor.UserName,
			IPAddress:         actor.IPAddress,
			Reason:            reason,
			ReferenceDocument: refDoc,
			PreviousBalance:   previous,
			CurrentBalance:    current,
			TransactionID:     uuid.New().String(),
		}
		if err := movementRepo.Append(mov); err != nil {
			return err
		}

		out = &dto.CreateMovementResponse{
			MovementResponse: toMovementResponse(mov),
			BelowMinimum:     stock.InShortage(stock.Classify(current, product.MinimumLevel)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                   m.ID,
		MovementType:         m.Type,
		IDProduct:            m.ProductID,
		Quantity:             m.Quantity,
		DateTime:             m.DateTime,
		IDUser:               m.UserID,
		UserName:             m.UserName,
		Reason:               m.Reason,
		ReferenceDocument:    m.ReferenceDocument,
		PreviousBalance:      m.PreviousBalance,
		CurrentBalance:       m.CurrentBalance,
		ReversalOfMovementID: m.ReversalOfMovementID,
	}
}
