package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"userhub/internal/adapters/http/middleware"
	"userhub/internal/config"
	"userhub/internal/core/services"
	"userhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

type testEnv struct {
	app        *fiber.App
	userRepo   *memUserRepo
	detailRepo *memDetailRepo
}

// newAuthApp wires the auth routes over in-memory stores, mirroring the
// production route setup
func newAuthApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	userRepo := newMemUserRepo()
	detailRepo := newMemDetailRepo()

	authService := services.NewAuthService(userRepo, detailRepo, cfg)
	authHandler := NewAuthHandler(authService, cfg)

	app := fiber.New()
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.AuthMiddleware(cfg), middleware.RequireUser(userRepo), authHandler.Me)

	return &testEnv{app: app, userRepo: userRepo, detailRepo: detailRepo}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) *response.Response {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out response.Response
	require.NoError(t, json.Unmarshal(raw, &out))
	return &out
}

func dataField(t *testing.T, resp *http.Response, key string) string {
	t.Helper()
	body := decodeResponse(t, resp)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object")
	value, _ := data[key].(string)
	return value
}

func registerRequest(username, email string) fiber.Map {
	return fiber.Map{
		"username":   username,
		"email":      email,
		"password":   "pw123456",
		"first_name": "Bob",
		"last_name":  "Builder",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("returns 201 with user and tokens", func(t *testing.T) {
		env := newAuthApp(t)

		resp := postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeResponse(t, resp)
		require.True(t, body.Success)
		data := body.Data.(map[string]interface{})
		require.NotEmpty(t, data["access_token"])
		require.NotEmpty(t, data["refresh_token"])

		user := data["user"].(map[string]interface{})
		require.Equal(t, "bob", user["username"])
		require.Equal(t, "user", user["role"])
		_, hasPassword := user["password"]
		require.False(t, hasPassword, "password must never be serialized")
	})

	t.Run("duplicate username is 409", func(t *testing.T) {
		env := newAuthApp(t)
		postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))

		resp := postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "other@x.com"))
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("short username and bad email are 400, user not created", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/register", fiber.Map{
			"username": "x", "email": "not-an-email", "password": "pw123456",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Empty(t, env.userRepo.users)
	})

	t.Run("username over 30 characters is 400", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/register", fiber.Map{
			"username": strings.Repeat("a", 31), "email": "long@x.com", "password": "pw123456",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed email is 400", func(t *testing.T) {
		env := newAuthApp(t)
		for _, email := range []string{"plainaddress", "missing@tld", "spaces in@x.com"} {
			resp := postJSON(t, env.app, "/api/v1/auth/register", fiber.Map{
				"username": "bob", "email": email, "password": "pw123456",
			})
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, "email %q must be rejected", email)
		}
	})

	t.Run("short password is 400", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/register", fiber.Map{
			"username": "bob", "email": "bob@x.com", "password": "short",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/register", fiber.Map{"username": "bob"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("wrong password is 401", func(t *testing.T) {
		env := newAuthApp(t)
		postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))

		resp := postJSON(t, env.app, "/api/v1/auth/login", fiber.Map{
			"username": "bob", "password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user is 401 too", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/login", fiber.Map{
			"username": "nobody", "password": "pw123456",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("disabled account is 403", func(t *testing.T) {
		env := newAuthApp(t)
		postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))
		for _, u := range env.userRepo.users {
			u.IsActive = false
		}

		resp := postJSON(t, env.app, "/api/v1/auth/login", fiber.Map{
			"username": "bob", "password": "pw123456",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("valid credentials return tokens and cookies", func(t *testing.T) {
		env := newAuthApp(t)
		postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))

		resp := postJSON(t, env.app, "/api/v1/auth/login", fiber.Map{
			"username": "bob", "password": "pw123456",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		cookies := map[string]bool{}
		for _, c := range resp.Cookies() {
			cookies[c.Name] = true
		}
		require.True(t, cookies["access_token"])
		require.True(t, cookies["refresh_token"])
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("rotates and kills the old token", func(t *testing.T) {
		env := newAuthApp(t)
		reg := postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))
		refreshToken := dataField(t, reg, "refresh_token")
		require.NotEmpty(t, refreshToken)

		first := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{"refresh_token": refreshToken})
		require.Equal(t, http.StatusOK, first.StatusCode)
		rotated := dataField(t, first, "refresh_token")
		require.NotEqual(t, refreshToken, rotated)

		// Replaying the pre-rotation token is 403
		replay := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{"refresh_token": refreshToken})
		require.Equal(t, http.StatusForbidden, replay.StatusCode)

		// The rotated one still works
		again := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{"refresh_token": rotated})
		require.Equal(t, http.StatusOK, again.StatusCode)
	})

	t.Run("missing token is 400", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{"refresh_token": "garbage"})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("revokes the token and later refresh fails", func(t *testing.T) {
		env := newAuthApp(t)
		reg := postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))
		refreshToken := dataField(t, reg, "refresh_token")

		out := postJSON(t, env.app, "/api/v1/auth/logout", fiber.Map{"refresh_token": refreshToken})
		require.Equal(t, http.StatusOK, out.StatusCode)

		refresh := postJSON(t, env.app, "/api/v1/auth/refresh", fiber.Map{"refresh_token": refreshToken})
		require.Equal(t, http.StatusForbidden, refresh.StatusCode)
	})

	t.Run("unknown token still succeeds", func(t *testing.T) {
		env := newAuthApp(t)
		resp := postJSON(t, env.app, "/api/v1/auth/logout", fiber.Map{"refresh_token": "never-issued"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestMeEndpoint(t *testing.T) {
	env := newAuthApp(t)
	reg := postJSON(t, env.app, "/api/v1/auth/register", registerRequest("bob", "bob@x.com"))
	accessToken := dataField(t, reg, "access_token")

	t.Run("returns the current user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeResponse(t, resp)
		user := body.Data.(map[string]interface{})["user"].(map[string]interface{})
		require.Equal(t, "bob", user["username"])
	})

	t.Run("no token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
