package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimentação de estoque expostos pela API. As formas acentuadas
// são as canônicas (é o que a API publica e o banco grava); grafias sem
// acento são aceitas na entrada via NormalizeMovementType.
const (
	MovementTypeEntrada  = "entrada"
	MovementTypeSaida    = "saída"
	MovementTypeAjuste   = "ajuste"
	MovementTypeCriacao  = "criação"
	MovementTypeExclusao = "exclusão"

	// MovementTypeEstorno é um subtipo derivado: só é criado pelo motor de
	// estorno, nunca diretamente pelo chamador.
	MovementTypeEstorno = "estorno"
)

// NormalizeMovementType converte as grafias sem acento para a forma canônica
// acentuada. Valores desconhecidos passam inalterados e caem na validação.
func NormalizeMovementType(movementType string) string {
	switch movementType {
	case "saida":
		return MovementTypeSaida
	case "criacao":
		return MovementTypeCriacao
	case "exclusao":
		return MovementTypeExclusao
	}
	return movementType
}

// StockMovement é um fato imutável do livro-razão de estoque. Uma vez
// persistido nunca é alterado nem excluído; correções entram como novas
// movimentações de estorno.
type StockMovement struct {
	ID                   int64
	AccountID            int64
	ProductID            int64
	Type                 string
	Quantity             decimal.Decimal // sempre com sinal: positivo entrada/criação, negativo saída/exclusão
	DateTime             time.Time       // atribuído na persistência; chave de ordenação do replay
	UserID               int64
	UserName             string
	IPAddress            string
	Reason               string // obrigatório para ajuste, exclusão e estorno
	ReferenceDocument    string
	PreviousBalance      decimal.Decimal // congelado no momento da criação
	CurrentBalance       decimal.Decimal // congelado no momento da criação
	ReversalOfMovementID *int64          // preenchido apenas em estornos
	TransactionID        string          // uuid de correlação da operação que gerou a linha
}

// IsReversal informa se a movimentação é um estorno.
func (m *StockMovement) IsReversal() bool {
	return m.Type == MovementTypeEstorno
}

// RequiresReason informa se o tipo exige justificativa não vazia.
func RequiresReason(movementType string) bool {
	switch movementType {
	case MovementTypeAjuste, MovementTypeExclusao, MovementTypeEstorno:
		return true
	}
	return false
}

// IsUserFacingType valida os tipos aceitos na criação direta (estorno fica de fora).
func IsUserFacingType(movementType string) bool {
	switch movementType {
	case MovementTypeEntrada, MovementTypeSaida, MovementTypeAjuste, MovementTypeCriacao, MovementTypeExclusao:
		return true
	}
	return false
}
