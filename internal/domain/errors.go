package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrProductNotFound    = errors.New("produto não encontrado")
	ErrMovementNotFound   = errors.New("movimentação não encontrada")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrConflict           = errors.New("conflito com o estado atual")
	ErrAlreadyReversed    = errors.New("movimentação já estornada")
)
