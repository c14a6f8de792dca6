// Package catalog mantém o catálogo de produtos, dono do nível mínimo que o
// classificador de falta consulta.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

// UseCase operações do catálogo de produtos.
type UseCase struct {
	productRepo repository.ProductRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(productRepo repository.ProductRepository) *UseCase {
	return &UseCase{productRepo: productRepo}
}

// CreateProduct cadastra um produto. O nível mínimo não pode ser negativo.
func (uc *UseCase) CreateProduct(accountID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku e name são obrigatórios", domain.ErrInvalidInput)
	}
	if in.MinimumLevel.IsNegative() {
		return nil, fmt.Errorf("%w: minimumLevel não pode ser negativo", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	p := &entity.Product{
		AccountID:    accountID,
		SKU:          sku,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		MinimumLevel: in.MinimumLevel,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetProduct busca um produto da conta.
func (uc *UseCase) GetProduct(accountID, id int64) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(accountID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// ListProducts lista os produtos ativos da conta.
func (uc *UseCase) ListProducts(accountID int64) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		MinimumLevel: p.MinimumLevel,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}
