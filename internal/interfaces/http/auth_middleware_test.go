package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/estoque-api/internal/domain/entity"
	apphttp "github.com/jportela/estoque-api/internal/interfaces/http"
	pkgjwt "github.com/jportela/estoque-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = int64(7)
	testAccountID = int64(3)
	testUserName  = "Maria Souza"
	testIssuer    = "estoque-api-test"
	testExpMin    = 60
)

// buildTestApp constrói uma aplicação Fiber mínima com:
//   - AuthMiddleware para parsear o JWT e carregar os locals
//   - RequireRole para autorizar o acesso
//   - Um handler dummy que devolve 200 se passar pelos middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar erros internos nos testes
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole gera um JWT com o papel indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testAccountID, testUserName, role, testIssuer, testExpMin)
	require.NoError(t, err, "deve gerar um token JWT válido")
	return "Bearer " + tok
}

// doRequest dispara um GET /protected e devolve a resposta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: o usuário tem o papel exigido (HTTP 200).
func TestRequireRole_AdminAcessaRotaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin deve acessar rota restrita a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

// Caso 1b: o usuário tem um dos papéis permitidos (HTTP 200).
func TestRequireRole_EstoquistaAcessaRotaAdminOuEstoquista(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleEstoquista)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleEstoquista))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"estoquista deve acessar rota que permite admin ou estoquista")
}

// Caso 2: papel diferente do exigido (HTTP 403 Forbidden).
func TestRequireRole_VendedorBloqueadoEmRotaDeEscrita(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleEstoquista)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleVendedor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"vendedor não deve escrever no razão")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Caso 3: token sem claim de papel (HTTP 401).
func TestRequireRole_TokenSemPapel_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testAccountID, testUserName, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 4: sem header Authorization (HTTP 401 MISSING_TOKEN).
func TestRequireRole_SemAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 5: token inválido / malformado (HTTP 401 INVALID_TOKEN).
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 6: token assinado com outro segredo (HTTP 401).
func TestRequireRole_SegredoErrado_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	tok, err := pkgjwt.Generate("outro-segredo", testUserID, testAccountID, testUserName, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extração das claims do token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraiClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"account_id": apphttp.GetAccountID(c),
			"user_name":  apphttp.GetUserName(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID    int64  `json:"user_id"`
		AccountID int64  `json:"account_id"`
		UserName  string `json:"user_name"`
		Role      string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testAccountID, body.AccountID)
	assert.Equal(t, testUserName, body.UserName)
	assert.Equal(t, entity.RoleAdmin, body.Role)
}
