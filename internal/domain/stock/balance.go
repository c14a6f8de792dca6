// Package stock concentra a aritmética pura do livro-razão: sinal por tipo de
// movimentação, replay de saldo e classificação de falta. Sem dependência de
// persistência; opera sobre linhas já carregadas.
package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
)

// SignQuantity deriva a quantidade com sinal que será gravada no razão.
// O chamador envia magnitude positiva para entrada/saída/criação/exclusão e
// valor com sinal (não zero) para ajuste; o sinal gravado vem do tipo:
//
//	entrada, criação  → +q
//	saída,  exclusão  → −q
//	ajuste            →  q (como enviado)
//
// Estorno não passa por aqui: sua quantidade é a negação exata da original.
func SignQuantity(movementType string, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch movementType {
	case entity.MovementTypeEntrada, entity.MovementTypeCriacao:
		if !quantity.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: quantidade deve ser positiva para %s", domain.ErrInvalidInput, movementType)
		}
		return quantity, nil
	case entity.MovementTypeSaida, entity.MovementTypeExclusao:
		if !quantity.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: quantidade deve ser positiva para %s", domain.ErrInvalidInput, movementType)
		}
		return quantity.Neg(), nil
	case entity.MovementTypeAjuste:
		if quantity.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: quantidade de ajuste não pode ser zero", domain.ErrInvalidInput)
		}
		return quantity, nil
	}
	return decimal.Zero, fmt.Errorf("%w: tipo de movimentação desconhecido %q", domain.ErrInvalidInput, movementType)
}

// ReplayResult resultado do replay das movimentações de um produto.
type ReplayResult struct {
	Balance         decimal.Decimal
	LastMovementAt  *time.Time
	IntegrityOK     bool
	Inconsistencies []string
}

// Replay soma as quantidades com sinal a partir de zero, na ordem recebida
// (o repositório garante (dateTime, id) ascendente). Como cada linha carrega
// seu CurrentBalance congelado, o replay também verifica a integridade:
// divergência entre saldo recalculado e saldo gravado é reportada, nunca
// corrigida.
func Replay(movements []*entity.StockMovement) ReplayResult {
	res := ReplayResult{Balance: decimal.Zero, IntegrityOK: true}

	running := decimal.Zero
	for _, m := range movements {
		running = running.Add(m.Quantity)
		if !running.Equal(m.CurrentBalance) {
			res.IntegrityOK = false
			diff := m.CurrentBalance.Sub(running)
			res.Inconsistencies = append(res.Inconsistencies, fmt.Sprintf(
				"saldo gravado diverge do saldo recalculado em %s na movimentação %d (gravado=%s, recalculado=%s)",
				diff.String(), m.ID, m.CurrentBalance.String(), running.String(),
			))
		}
	}
	res.Balance = running
	if n := len(movements); n > 0 {
		last := movements[n-1].DateTime
		res.LastMovementAt = &last
	}
	return res
}
