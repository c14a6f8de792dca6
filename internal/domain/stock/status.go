package stock

import "github.com/shopspring/decimal"

// Faixas de criticidade de estoque, em ordem crescente de severidade.
const (
	StatusNormal  = "normal"
	StatusBaixo   = "baixo"
	StatusCritico = "crítico"
	StatusZerado  = "zerado"
)

// Filtros aceitos pela listagem de produtos em falta.
const (
	ShortageFilterTodos = "todos_em_falta" // união de baixo, crítico e zerado
)

var hundred = decimal.NewFromInt(100)
var quarter = decimal.NewFromFloat(0.25)

// Classify mapeia (saldo, mínimo) para uma faixa. Avaliação em ordem fixa,
// primeira regra que casar vence, para que as fronteiras não se sobreponham:
//
//	zerado  se saldo <= 0
//	crítico se 0 < saldo <= 0.25*mínimo
//	baixo   se 0.25*mínimo < saldo <= mínimo
//	normal  caso contrário
func Classify(balance, minimumLevel decimal.Decimal) string {
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return StatusZerado
	case balance.LessThanOrEqual(minimumLevel.Mul(quarter)):
		return StatusCritico
	case balance.LessThanOrEqual(minimumLevel):
		return StatusBaixo
	}
	return StatusNormal
}

// InShortage informa se a faixa entra nas listagens de falta.
func InShortage(status string) bool {
	return status != StatusNormal
}

// PercentOfMinimum calcula saldo/mínimo*100. Convenção documentada para
// mínimo <= 0: retorna 100 ("não aplicável"), evitando divisão por zero.
// A mesma regra vale para o saldo e para a listagem de falta.
func PercentOfMinimum(balance, minimumLevel decimal.Decimal) decimal.Decimal {
	if minimumLevel.LessThanOrEqual(decimal.Zero) {
		return hundred
	}
	return balance.Div(minimumLevel).Mul(hundred).Round(2)
}

// CriticalityRank ordena faixas por severidade (maior = mais grave).
// Usado pelo orderBy=criticidade da listagem de falta.
func CriticalityRank(status string) int {
	switch status {
	case StatusZerado:
		return 3
	case StatusCritico:
		return 2
	case StatusBaixo:
		return 1
	}
	return 0
}

// ValidShortageFilter valida o statusFilter da listagem de falta.
func ValidShortageFilter(filter string) bool {
	switch filter {
	case StatusBaixo, StatusCritico, StatusZerado, ShortageFilterTodos:
		return true
	}
	return false
}
