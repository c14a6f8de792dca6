package repository

import "github.com/jportela/estoque-api/internal/domain/entity"

// ProductRepository porta do catálogo de produtos (dono do nível mínimo).
type ProductRepository interface {
	Create(p *entity.Product) error

	// GetByID busca um produto da conta. Nil quando não existe.
	GetByID(accountID, id int64) (*entity.Product, error)

	// GetForUpdate busca o produto bloqueando sua linha (SELECT FOR UPDATE).
	// É o ponto de serialização por produto das escritas do razão; só faz
	// sentido dentro de uma transação do TxRunner.
	GetForUpdate(accountID, id int64) (*entity.Product, error)

	// ListByAccount lista os produtos ativos da conta (varredura de falta).
	ListByAccount(accountID int64) ([]*entity.Product, error)
}
