package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ordenações aceitas na listagem de movimentações.
const (
	OrderDataCrescente   = "data_crescente"
	OrderDataDecrescente = "data_decrescente"
)

// Ordenações aceitas na listagem de produtos em falta.
const (
	OrderCriticidade = "criticidade"
	OrderAlfabetica  = "alfabetica"
)

// CreateMovementRequest body de POST /api/stock/movements.
// Quantity é magnitude positiva para entrada/saída/criação/exclusão e valor
// com sinal (não zero) para ajuste; o sinal gravado deriva do tipo.
type CreateMovementRequest struct {
	MovementType      string          `json:"movementType"`
	IDProduct         int64           `json:"idProduct"`
	Quantity          decimal.Decimal `json:"quantity"`
	Reason            *string         `json:"reason,omitempty"`
	ReferenceDocument *string         `json:"referenceDocument,omitempty"`
}

// MovementResponse uma linha do razão na resposta da API.
type MovementResponse struct {
	ID                   int64           `json:"id"`
	MovementType         string          `json:"movementType"`
	IDProduct            int64           `json:"idProduct"`
	Quantity             decimal.Decimal `json:"quantity"`
	DateTime             time.Time       `json:"dateTime"`
	IDUser               int64           `json:"idUser"`
	UserName             string          `json:"userName"`
	Reason               string          `json:"reason,omitempty"`
	ReferenceDocument    string          `json:"referenceDocument,omitempty"`
	PreviousBalance      decimal.Decimal `json:"previousBalance"`
	CurrentBalance       decimal.Decimal `json:"currentBalance"`
	ReversalOfMovementID *int64          `json:"idOriginalMovement,omitempty"`
}

// CreateMovementResponse resposta de criação, com alerta de nível mínimo.
type CreateMovementResponse struct {
	MovementResponse
	BelowMinimum bool `json:"belowMinimum"`
}

// ListMovementsRequest parâmetros de GET /api/stock/movements.
type ListMovementsRequest struct {
	StartDate    *time.Time
	EndDate      *time.Time
	MovementType string // vazio ou "todos" = todos os tipos
	IDProduct    *int64
	IDUser       *int64
	OrderBy      string // data_crescente | data_decrescente
	PageSize     int    // 10..1000; 0 = padrão 50
	PageNumber   int    // >= 1; 0 = padrão 1
}

// ListMovementsResponse página de movimentações + total para paginação.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	Total     int64              `json:"total"`
}

// BalanceResponse resultado do cálculo de saldo de um produto.
type BalanceResponse struct {
	IDProduct               int64              `json:"idProduct"`
	CalculatedBalance       decimal.Decimal    `json:"calculatedBalance"`
	LastUpdate              *time.Time         `json:"lastUpdate,omitempty"`
	StockStatus             string             `json:"stockStatus"`
	MinimumLevel            decimal.Decimal    `json:"minimumLevel"`
	PercentageOfMinimum     decimal.Decimal    `json:"percentageOfMinimum"`
	MovementHistory         []MovementResponse `json:"movementHistory"`
	IntegrityCheck          bool               `json:"integrityCheck"`
	InconsistenciesDetected []string           `json:"inconsistenciesDetected,omitempty"`
}

// ReverseMovementRequest body de POST /api/stock/movements/reverse.
type ReverseMovementRequest struct {
	IDOriginalMovement int64  `json:"idOriginalMovement"`
	Reason             string `json:"reason"`
}

// ReverseMovementResponse resultado do estorno.
type ReverseMovementResponse struct {
	ID                 int64           `json:"id"`
	IDOriginalMovement int64           `json:"idOriginalMovement"`
	PreviousBalance    decimal.Decimal `json:"previousBalance"`
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
}

// ShortageRow um produto em falta na varredura da conta.
type ShortageRow struct {
	IDProduct           int64           `json:"idProduct"`
	ProductName         string          `json:"productName"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	MinimumLevel        decimal.Decimal `json:"minimumLevel"`
	StockStatus         string          `json:"stockStatus"`
	LastMovementDate    *time.Time      `json:"lastMovementDate,omitempty"`
	PercentageOfMinimum decimal.Decimal `json:"percentageOfMinimum"`
}
