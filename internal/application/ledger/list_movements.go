package ledger

import (
	"context"
	"fmt"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

// Limites de paginação da listagem (mesmo contrato da API externa).
const (
	minPageSize     = 10
	maxPageSize     = 1000
	defaultPageSize = 50
)

// ListMovements lista movimentações da conta com filtros, ordenação por data
// e paginação 1-based. Leitura pura: não adquire o bloqueio por produto,
// apenas enxerga linhas já commitadas.
func (uc *UseCase) ListMovements(ctx context.Context, accountID int64, in dto.ListMovementsRequest) (*dto.ListMovementsResponse, error) {
	filter, err := buildMovementFilter(in)
	if err != nil {
		return nil, err
	}

	movements, total, err := uc.movementRepo.ListRange(accountID, filter)
	if err != nil {
		return nil, err
	}

	out := &dto.ListMovementsResponse{
		Movements: make([]dto.MovementResponse, 0, len(movements)),
		Total:     total,
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, toMovementResponse(m))
	}
	return out, nil
}

func buildMovementFilter(in dto.ListMovementsRequest) (repository.MovementFilter, error) {
	var f repository.MovementFilter

	switch movementType := entity.NormalizeMovementType(in.MovementType); movementType {
	case "", "todos":
		f.Type = ""
	case entity.MovementTypeEntrada, entity.MovementTypeSaida, entity.MovementTypeAjuste,
		entity.MovementTypeCriacao, entity.MovementTypeExclusao, entity.MovementTypeEstorno:
		f.Type = movementType
	default:
		return f, fmt.Errorf("%w: tipo de movimentação inválido %q", domain.ErrInvalidInput, in.MovementType)
	}

	switch in.OrderBy {
	case "", dto.OrderDataDecrescente:
		f.Ascending = false
	case dto.OrderDataCrescente:
		f.Ascending = true
	default:
		return f, fmt.Errorf("%w: orderBy inválido %q", domain.ErrInvalidInput, in.OrderBy)
	}

	f.PageSize = in.PageSize
	if f.PageSize == 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize < minPageSize || f.PageSize > maxPageSize {
		return f, fmt.Errorf("%w: pageSize deve estar entre %d e %d", domain.ErrInvalidInput, minPageSize, maxPageSize)
	}

	f.PageNumber = in.PageNumber
	if f.PageNumber == 0 {
		f.PageNumber = 1
	}
	if f.PageNumber < 1 {
		return f, fmt.Errorf("%w: pageNumber deve ser >= 1", domain.ErrInvalidInput)
	}

	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return f, fmt.Errorf("%w: endDate anterior a startDate", domain.ErrInvalidInput)
	}
	f.StartDate = in.StartDate
	f.EndDate = in.EndDate
	f.ProductID = in.IDProduct
	f.UserID = in.IDUser
	return f, nil
}
