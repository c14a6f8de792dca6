package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/application/ledger"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/stock"
	"github.com/jportela/estoque-api/internal/infrastructure/memory"
)

const testAccountID = int64(1)

var testActor = ledger.Actor{UserID: 7, UserName: "maria", IPAddress: "10.0.0.1"}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func strPtr(s string) *string { return &s }

// env monta o caso de uso sobre o store em memória, que reproduz a
// serialização por produto do adaptador PostgreSQL.
type env struct {
	store *memory.Store
	uc    *ledger.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	uc := ledger.NewUseCase(
		store,
		memory.NewMovementRepository(store),
		memory.NewProductRepository(store),
		nil,
	)
	return &env{store: store, uc: uc}
}

func (e *env) createProduct(t *testing.T, name, minimumLevel string) int64 {
	t.Helper()
	p := &entity.Product{
		AccountID:    testAccountID,
		SKU:          "SKU-" + name,
		Name:         name,
		MinimumLevel: d(minimumLevel),
		Active:       true,
	}
	require.NoError(t, memory.NewProductRepository(e.store).Create(p))
	return p.ID
}

func (e *env) create(t *testing.T, productID int64, movementType, quantity string, reason *string) *dto.CreateMovementResponse {
	t.Helper()
	out, err := e.uc.CreateMovement(context.Background(), testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: movementType,
		IDProduct:    productID,
		Quantity:     d(quantity),
		Reason:       reason,
	})
	require.NoError(t, err)
	return out
}

func TestCreateMovement_EntradaCongelaSaldos(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Parafuso", "50")

	out := e.create(t, productID, entity.MovementTypeEntrada, "100", nil)

	assert.True(t, out.PreviousBalance.IsZero())
	assert.True(t, out.CurrentBalance.Equal(d("100")))
	assert.True(t, out.Quantity.Equal(d("100")))
	assert.Equal(t, testActor.UserID, out.IDUser)
	assert.Equal(t, testActor.UserName, out.UserName)
	assert.False(t, out.BelowMinimum)
	assert.NotZero(t, out.ID)
}

func TestCreateMovement_SaidaPermiteSaldoNegativo(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Porca", "10")

	// Saída sem estoque prévio: o razão aceita e o saldo fica negativo
	out := e.create(t, productID, entity.MovementTypeSaida, "30", nil)

	assert.True(t, out.Quantity.Equal(d("-30")))
	assert.True(t, out.CurrentBalance.Equal(d("-30")))
	assert.True(t, out.BelowMinimum)
}

func TestCreateMovement_TipoAcentuadoEhCanonico(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Lixa", "10")

	out, err := e.uc.CreateMovement(context.Background(), testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: "saída",
		IDProduct:    productID,
		Quantity:     d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeSaida, out.MovementType)
	assert.True(t, out.Quantity.Equal(d("-5")))
}

func TestCreateMovement_GrafiaSemAcentoNormalizada(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Estilete", "10")

	out, err := e.uc.CreateMovement(context.Background(), testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: "exclusao",
		IDProduct:    productID,
		Quantity:     d("1"),
		Reason:       strPtr("descarte por avaria"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeExclusao, out.MovementType)
	assert.True(t, out.Quantity.Equal(d("-1")))
}

func TestListMovements_FiltroNormalizaAcento(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Trena", "10")
	e.create(t, productID, entity.MovementTypeCriacao, "5", nil)
	e.create(t, productID, entity.MovementTypeEntrada, "3", nil)

	out, err := e.uc.ListMovements(context.Background(), testAccountID, dto.ListMovementsRequest{
		MovementType: "criacao",
	})
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	assert.Equal(t, entity.MovementTypeCriacao, out.Movements[0].MovementType)
}

func TestCreateMovement_CicloEntradaSaidaEstorno(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Arruela", "50")
	ctx := context.Background()

	e.create(t, productID, entity.MovementTypeEntrada, "100", nil)
	saida := e.create(t, productID, entity.MovementTypeSaida, "30", nil)

	rev, err := e.uc.ReverseMovement(ctx, testAccountID, testActor, dto.ReverseMovementRequest{
		IDOriginalMovement: saida.ID,
		Reason:             "saída lançada em duplicidade",
	})
	require.NoError(t, err)
	assert.True(t, rev.PreviousBalance.Equal(d("70")))
	assert.True(t, rev.CurrentBalance.Equal(d("100")))
	assert.Equal(t, saida.ID, rev.IDOriginalMovement)

	// A original continua intocada e o saldo volta ao valor pré-saída
	bal, err := e.uc.Balance(ctx, testAccountID, productID, nil)
	require.NoError(t, err)
	assert.True(t, bal.CalculatedBalance.Equal(d("100")))
	assert.True(t, bal.IntegrityCheck)
	assert.Empty(t, bal.InconsistenciesDetected)
	require.Len(t, bal.MovementHistory, 3)
	assert.Equal(t, entity.MovementTypeEstorno, bal.MovementHistory[2].MovementType)
	assert.True(t, bal.MovementHistory[2].Quantity.Equal(d("30")))
	require.NotNil(t, bal.MovementHistory[2].ReversalOfMovementID)
	assert.Equal(t, saida.ID, *bal.MovementHistory[2].ReversalOfMovementID)
}

func TestCreateMovement_AjusteExigeJustificativa(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Prego", "10")
	ctx := context.Background()

	_, err := e.uc.CreateMovement(ctx, testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeAjuste,
		IDProduct:    productID,
		Quantity:     d("-5"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Com justificativa o ajuste negativo passa e mantém o sinal enviado
	out := e.create(t, productID, entity.MovementTypeAjuste, "-5", strPtr("acerto de inventário"))
	assert.True(t, out.Quantity.Equal(d("-5")))
	assert.True(t, out.CurrentBalance.Equal(d("-5")))
}

func TestCreateMovement_EstornoDiretoRejeitado(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Chapa", "10")

	_, err := e.uc.CreateMovement(context.Background(), testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeEstorno,
		IDProduct:    productID,
		Quantity:     d("10"),
		Reason:       strPtr("tentativa direta"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreateMovement_ProdutoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.CreateMovement(context.Background(), testAccountID, testActor, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeEntrada,
		IDProduct:    999,
		Quantity:     d("10"),
	})
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestReverseMovement_SegundaTentativaConflita(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Cano", "10")
	ctx := context.Background()

	entrada := e.create(t, productID, entity.MovementTypeEntrada, "10", nil)

	req := dto.ReverseMovementRequest{IDOriginalMovement: entrada.ID, Reason: "lançamento errado"}
	_, err := e.uc.ReverseMovement(ctx, testAccountID, testActor, req)
	require.NoError(t, err)

	_, err = e.uc.ReverseMovement(ctx, testAccountID, testActor, req)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
}

func TestReverseMovement_JustificativaObrigatoria(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Tubo", "10")
	entrada := e.create(t, productID, entity.MovementTypeEntrada, "10", nil)

	_, err := e.uc.ReverseMovement(context.Background(), testAccountID, testActor, dto.ReverseMovementRequest{
		IDOriginalMovement: entrada.ID,
		Reason:             "   ",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReverseMovement_EstornoDeEstornoPermitido(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Fita", "10")
	ctx := context.Background()

	entrada := e.create(t, productID, entity.MovementTypeEntrada, "10", nil)
	rev1, err := e.uc.ReverseMovement(ctx, testAccountID, testActor, dto.ReverseMovementRequest{
		IDOriginalMovement: entrada.ID, Reason: "estorno indevido",
	})
	require.NoError(t, err)

	// O estorno é uma movimentação nova, então pode ser estornado
	rev2, err := e.uc.ReverseMovement(ctx, testAccountID, testActor, dto.ReverseMovementRequest{
		IDOriginalMovement: rev1.ID, Reason: "reverter o estorno",
	})
	require.NoError(t, err)
	assert.True(t, rev2.CurrentBalance.Equal(d("10")))
}

func TestReverseMovement_OutraContaNaoEncontrada(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Cola", "10")
	entrada := e.create(t, productID, entity.MovementTypeEntrada, "10", nil)

	_, err := e.uc.ReverseMovement(context.Background(), int64(2), testActor, dto.ReverseMovementRequest{
		IDOriginalMovement: entrada.ID,
		Reason:             "conta errada",
	})
	assert.True(t, errors.Is(err, domain.ErrMovementNotFound))
}

func TestBalance_ProdutoSemHistorico(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Lixa", "10")

	bal, err := e.uc.Balance(context.Background(), testAccountID, productID, nil)
	require.NoError(t, err)
	assert.True(t, bal.CalculatedBalance.IsZero())
	assert.Nil(t, bal.LastUpdate)
	assert.True(t, bal.IntegrityCheck)
	assert.Equal(t, stock.StatusZerado, bal.StockStatus)
	assert.Empty(t, bal.MovementHistory)
}

func TestBalance_DataDeReferencia(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Serra", "10")
	repo := memory.NewMovementRepository(e.store)

	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	for i, qty := range []string{"100", "-30", "50"} {
		require.NoError(t, repo.Append(&entity.StockMovement{
			AccountID:      testAccountID,
			ProductID:      productID,
			Type:           entity.MovementTypeAjuste,
			Quantity:       d(qty),
			DateTime:       base.Add(time.Duration(i) * time.Hour),
			UserID:         testActor.UserID,
			UserName:       testActor.UserName,
			Reason:         "carga de teste",
			CurrentBalance: d([]string{"100", "70", "120"}[i]),
		}))
	}

	// Corte entre a segunda e a terceira movimentação
	asOf := base.Add(90 * time.Minute)
	bal, err := e.uc.Balance(context.Background(), testAccountID, productID, &asOf)
	require.NoError(t, err)
	assert.True(t, bal.CalculatedBalance.Equal(d("70")))
	require.Len(t, bal.MovementHistory, 2)
}

func TestBalance_ProdutoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Balance(context.Background(), testAccountID, 42, nil)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestListMovements_Paginacao(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Broca", "10")
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		e.create(t, productID, entity.MovementTypeEntrada, "1", nil)
	}

	out, err := e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{
		OrderBy:    dto.OrderDataCrescente,
		PageSize:   10,
		PageNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.Total)
	require.Len(t, out.Movements, 10)
	// Página 2 em ordem crescente: itens 11..20
	assert.Equal(t, int64(11), out.Movements[0].ID)
	assert.Equal(t, int64(20), out.Movements[9].ID)

	// Última página parcial
	out, err = e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{
		OrderBy:    dto.OrderDataCrescente,
		PageSize:   10,
		PageNumber: 3,
	})
	require.NoError(t, err)
	require.Len(t, out.Movements, 5)
	assert.Equal(t, int64(25), out.Total)
}

func TestListMovements_ValidacaoDeParametros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{PageSize: 5})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "pageSize abaixo do mínimo")

	_, err = e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{PageSize: 2000})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "pageSize acima do máximo")

	_, err = e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{MovementType: "transferencia"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "tipo inválido")

	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = e.uc.ListMovements(ctx, testAccountID, dto.ListMovementsRequest{StartDate: &start, EndDate: &end})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "endDate antes de startDate")
}

func TestListMovements_FiltroPorTipo(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Martelo", "10")

	e.create(t, productID, entity.MovementTypeEntrada, "10", nil)
	e.create(t, productID, entity.MovementTypeSaida, "3", nil)
	e.create(t, productID, entity.MovementTypeEntrada, "5", nil)

	out, err := e.uc.ListMovements(context.Background(), testAccountID, dto.ListMovementsRequest{
		MovementType: entity.MovementTypeSaida,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Movements, 1)
	assert.True(t, out.Movements[0].Quantity.Equal(d("-3")))
}

func TestCreateMovement_ConcorrenciaMesmoProduto(t *testing.T) {
	e := newEnv(t)
	productID := e.createProduct(t, "Rebite", "10")
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := e.uc.CreateMovement(ctx, testAccountID, testActor, dto.CreateMovementRequest{
				MovementType: entity.MovementTypeEntrada,
				IDProduct:    productID,
				Quantity:     d("1"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bal, err := e.uc.Balance(ctx, testAccountID, productID, nil)
	require.NoError(t, err)
	assert.True(t, bal.CalculatedBalance.Equal(d("20")))
	assert.True(t, bal.IntegrityCheck)
	require.Len(t, bal.MovementHistory, n)

	// A cadeia de saldos congelados é contígua: previous de cada linha é o
	// current da anterior
	prev := d("0")
	for _, m := range bal.MovementHistory {
		assert.True(t, m.PreviousBalance.Equal(prev),
			"movimentação %d: previous=%s esperado=%s", m.ID, m.PreviousBalance, prev)
		prev = m.CurrentBalance
	}
}

func TestCreateMovement_ConcorrenciaProdutosDiferentes(t *testing.T) {
	e := newEnv(t)
	a := e.createProduct(t, "Produto A", "10")
	b := e.createProduct(t, "Produto B", "10")
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, productID := range []int64{a, b} {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := e.uc.CreateMovement(ctx, testAccountID, testActor, dto.CreateMovementRequest{
					MovementType: entity.MovementTypeEntrada,
					IDProduct:    id,
					Quantity:     d("1"),
				})
				assert.NoError(t, err)
			}(productID)
		}
	}
	wg.Wait()

	for _, productID := range []int64{a, b} {
		bal, err := e.uc.Balance(ctx, testAccountID, productID, nil)
		require.NoError(t, err)
		assert.True(t, bal.CalculatedBalance.Equal(d("10")))
		assert.True(t, bal.IntegrityCheck)
	}
}
