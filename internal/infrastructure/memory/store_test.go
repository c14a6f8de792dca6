package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
	"github.com/jportela/estoque-api/internal/infrastructure/memory"
)

func TestRun_CommitTornaAppendsVisiveis(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.Run(ctx, func(movements repository.StockMovementRepository, _ repository.ProductRepository) error {
		m := &entity.StockMovement{AccountID: 1, ProductID: 1, Type: entity.MovementTypeEntrada, Quantity: decimal.NewFromInt(5)}
		if err := movements.Append(m); err != nil {
			return err
		}
		// Dentro da própria tx o pendente já aparece
		list, err := movements.ListByProduct(1, 1, nil)
		if err != nil {
			return err
		}
		assert.Len(t, list, 1)
		return nil
	})
	require.NoError(t, err)

	list, err := memory.NewMovementRepository(store).ListByProduct(1, 1, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRun_ErroDescartaPendentes(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Run(context.Background(), func(movements repository.StockMovementRepository, _ repository.ProductRepository) error {
		m := &entity.StockMovement{AccountID: 1, ProductID: 1, Type: entity.MovementTypeEntrada, Quantity: decimal.NewFromInt(5)}
		require.NoError(t, movements.Append(m))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Rollback: nada ficou visível e o lock do produto foi liberado
	list, err := memory.NewMovementRepository(store).ListByProduct(1, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = store.Run(context.Background(), func(_ repository.StockMovementRepository, products repository.ProductRepository) error {
		_, err := products.GetForUpdate(1, 1)
		return err
	})
	require.NoError(t, err)
}
