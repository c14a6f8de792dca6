package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do catálogo de uma conta. O saldo NÃO mora
// aqui: é sempre derivado do livro-razão de movimentações. A linha do produto
// serve também de ponto de serialização (SELECT FOR UPDATE) para escritas.
type Product struct {
	ID           int64
	AccountID    int64
	SKU          string // código único por conta
	Name         string
	Description  string
	MinimumLevel decimal.Decimal // nível mínimo configurado; consultado pelo classificador de falta
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
