package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jportela/estoque-api/internal/application/auth"
	"github.com/jportela/estoque-api/internal/application/catalog"
	"github.com/jportela/estoque-api/internal/application/ledger"
	"github.com/jportela/estoque-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	LedgerUC  *ledger.UseCase
	CatalogUC *catalog.UseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Escritas no razão exigem papel de estoque; leituras, qualquer papel
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleEstoquista)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", canWrite, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Stock movements (protegido)
	stock := protected.Group("/stock/movements")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock.Post("/", canWrite, stockHandler.CreateMovement)
	stock.Get("/", stockHandler.ListMovements)
	stock.Get("/balance/:idProduct", stockHandler.Balance)
	stock.Post("/reverse", canWrite, stockHandler.ReverseMovement)
	stock.Get("/shortage", stockHandler.Shortage)
	stock.Get("/shortage/report", stockHandler.ShortageReport)
}
