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

	"github.com/jhoicas/custodia-api/internal/application/auth"
	apphttp "github.com/jhoicas/custodia-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/custodia-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testRepID     = "r1"
	testIssuer    = "custodia-api-test"
	testExpMin    = 60
)

// buildMeApp app mínima: AuthMiddleware + handler que devuelve el principal.
func buildMeApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		fromCtx, err := auth.PrincipalFrom(c.UserContext())
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{
			"user_id":           p.UserID,
			"role":              p.Role,
			"representative_id": p.RepresentativeID,
			"ctx_role":          fromCtx.Role,
		})
	})
	return app
}

func bearer(t *testing.T, sub pkgjwt.Subject, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, sub, testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_ExtraePrincipal(t *testing.T) {
	app := buildMeApp()
	resp := getMe(t, app, bearer(t, pkgjwt.Subject{UserID: testUserID, Role: "vendedor", RepresentativeID: testRepID}, testExpMin))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "vendedor", body["role"])
	assert.Equal(t, testRepID, body["representative_id"])
	assert.Equal(t, "vendedor", body["ctx_role"], "el principal también debe viajar en el user context")
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildMeApp()
	expired := bearer(t, pkgjwt.Subject{UserID: testUserID, Role: "admin"}, -1)
	noRole := bearer(t, pkgjwt.Subject{UserID: testUserID}, testExpMin)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token vacío", "Bearer   ", "MISSING_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", expired, "INVALID_TOKEN"},
		{"token sin rol", noRole, "MISSING_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getMe(t, app, tt.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.code)
		})
	}
}

func TestAuthMiddleware_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", pkgjwt.Subject{UserID: testUserID, Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "secret incorrecto debe invalidar el token")
}
