package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/pkg/jwt"
)

// Locals keys preenchidas pelo AuthMiddleware.
const (
	LocalUserID    = "user_id"
	LocalAccountID = "account_id"
	LocalUserName  = "user_name"
	LocalRole      = "role"
)

// AuthMiddleware valida o Bearer Token JWT e extrai usuário, conta, nome e
// papel para c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalAccountID, claims.AccountID)
		c.Locals(LocalUserName, claims.UserName)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// GetUserID devolve o ID do usuário do contexto (após o middleware de auth).
func GetUserID(c *fiber.Ctx) int64 {
	v, _ := c.Locals(LocalUserID).(int64)
	return v
}

// GetAccountID devolve o ID da conta do contexto.
func GetAccountID(c *fiber.Ctx) int64 {
	v, _ := c.Locals(LocalAccountID).(int64)
	return v
}

// GetUserName devolve o nome do usuário do contexto.
func GetUserName(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalUserName).(string)
	return v
}

// GetRole devolve o papel do usuário do contexto.
func GetRole(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRole).(string)
	return v
}

// RequireRole devolve um middleware que exige um dos papéis dados. Deve ser
// usado DEPOIS de AuthMiddleware (precisa de LocalRole).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "papel não encontrado no token"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "papel sem permissão para esta operação"})
	}
}
