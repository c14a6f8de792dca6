package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/stock"
)

// Shortage varre os produtos da conta, recalcula cada saldo a partir do
// razão (nada de cache mutável de "produtos em falta") e devolve os que
// estão na faixa pedida. statusFilter vazio = todos_em_falta; orderBy vazio
// = criticidade.
func (uc *UseCase) Shortage(ctx context.Context, accountID int64, statusFilter, orderBy string) ([]dto.ShortageRow, error) {
	if statusFilter == "" {
		statusFilter = stock.ShortageFilterTodos
	}
	if !stock.ValidShortageFilter(statusFilter) {
		return nil, fmt.Errorf("%w: statusFilter inválido %q", domain.ErrInvalidInput, statusFilter)
	}
	if orderBy == "" {
		orderBy = dto.OrderCriticidade
	}
	if orderBy != dto.OrderCriticidade && orderBy != dto.OrderAlfabetica {
		return nil, fmt.Errorf("%w: orderBy inválido %q", domain.ErrInvalidInput, orderBy)
	}

	products, err := uc.productRepo.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ShortageRow, 0)
	for _, p := range products {
		movements, err := uc.movementRepo.ListByProduct(accountID, p.ID, nil)
		if err != nil {
			return nil, err
		}
		replay := stock.Replay(movements)
		status := stock.Classify(replay.Balance, p.MinimumLevel)
		if !stock.InShortage(status) {
			continue
		}
		if statusFilter != stock.ShortageFilterTodos && status != statusFilter {
			continue
		}
		rows = append(rows, dto.ShortageRow{
			IDProduct:           p.ID,
			ProductName:         p.Name,
			CurrentBalance:      replay.Balance,
			MinimumLevel:        p.MinimumLevel,
			StockStatus:         status,
			LastMovementDate:    replay.LastMovementAt,
			PercentageOfMinimum: stock.PercentOfMinimum(replay.Balance, p.MinimumLevel),
		})
	}

	sortShortageRows(rows, orderBy)
	return rows, nil
}

// sortShortageRows ordena por criticidade (zerado > crítico > baixo, empate
// por menor percentual do mínimo primeiro) ou alfabeticamente pelo nome do
// produto com collation pt-BR, para que acentos não quebrem a ordem.
func sortShortageRows(rows []dto.ShortageRow, orderBy string) {
	if orderBy == dto.OrderAlfabetica {
		cl := collate.New(language.BrazilianPortuguese)
		sort.SliceStable(rows, func(i, j int) bool {
			return cl.CompareString(rows[i].ProductName, rows[j].ProductName) < 0
		})
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri := stock.CriticalityRank(rows[i].StockStatus)
		rj := stock.CriticalityRank(rows[j].StockStatus)
		if ri != rj {
			return ri > rj
		}
		return rows[i].PercentageOfMinimum.LessThan(rows[j].PercentageOfMinimum)
	})
}

// ShortageReport gera o PDF da listagem de falta com os mesmos filtros da
// varredura.
func (uc *UseCase) ShortageReport(ctx context.Context, accountID int64, statusFilter, orderBy string) ([]byte, error) {
	if uc.reportGen == nil {
		return nil, fmt.Errorf("%w: relatório PDF não configurado", domain.ErrInvalidInput)
	}
	rows, err := uc.Shortage(ctx, accountID, statusFilter, orderBy)
	if err != nil {
		return nil, err
	}
	return uc.reportGen.GenerateShortageReport(ctx, accountID, time.Now(), rows)
}
