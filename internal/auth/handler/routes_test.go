package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/itz-mohit-014/tts-software/internal/auth/handler"
	"github.com/itz-mohit-014/tts-software/internal/auth/middleware"
	"github.com/itz-mohit-014/tts-software/internal/auth/service"
	"github.com/itz-mohit-014/tts-software/internal/auth/token"
	"github.com/itz-mohit-014/tts-software/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGatedApp wires the full request path: JWT guard in front of the mounted
// routes, sharing one token service and blacklist with the handler.
func newGatedApp(ctrl *gomock.Controller) (*fiber.App, *service.TokenService, *token.Blacklist) {
	users := mocks.NewMockUserRepository(ctrl)
	otps := mocks.NewMockOTPRepository(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	blacklist := token.NewBlacklist()

	tokenService := service.NewTokenService("test-secret", 15)
	otpService := service.NewOTPService(otps, notifier)
	userService := service.NewUserService(users, otpService, tokenService)
	authHandler := handler.NewAuthHandler(userService, blacklist)

	exempt := []string{
		"/api/auth/login",
		"/api/auth/create",
		"/api/auth/send-otp",
		"/api/auth/verify-otp",
		"/api/auth/forget",
		"/api/auth/reset-password",
	}

	app := fiber.New()
	app.Use(middleware.NewJWTGuard(tokenService, blacklist, exempt).Handler())
	handler.RegisterRoutes(app, authHandler)

	return app, tokenService, blacklist
}

func TestGatedRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, tokenService, _ := newGatedApp(ctrl)

	t.Run("exempt route reachable without token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		// Reaches the handler, which rejects the empty body; never 401.
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("guarded route rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile/user-123", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("guarded route accepts a valid token", func(t *testing.T) {
		signed, err := tokenService.Generate("user-123", "a@x.com")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/auth/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

// TestLogoutRevokesAccess proves the token lifecycle end to end: a token that
// passes the guard stops working the moment it is logged out, while other
// tokens are untouched.
func TestLogoutRevokesAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, tokenService, blacklist := newGatedApp(ctrl)

	first, err := tokenService.Generate("user-123", "a@x.com")
	require.NoError(t, err)
	second, err := tokenService.Generate("user-456", "b@x.com")
	require.NoError(t, err)

	get := func(bearer string) int {
		req := httptest.NewRequest("GET", "/api/auth/protected", nil)
		req.Header.Set("Authorization", "Bearer "+bearer)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, get(first))
	assert.Equal(t, fiber.StatusOK, get(second))

	logout := httptest.NewRequest("POST", "/api/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+first)
	resp, err := app.Test(logout)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, blacklist.IsRevoked(first))
	assert.Equal(t, fiber.StatusUnauthorized, get(first))
	assert.Equal(t, fiber.StatusOK, get(second))
}
