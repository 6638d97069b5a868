package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/itz-mohit-014/tts-software/internal/auth/dto"
	"github.com/itz-mohit-014/tts-software/internal/auth/middleware"
	"github.com/itz-mohit-014/tts-software/internal/auth/service"
	"github.com/itz-mohit-014/tts-software/internal/auth/token"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	blacklist   *token.Blacklist
}

func NewAuthHandler(userService *service.UserService, blacklist *token.Blacklist) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		blacklist:   blacklist,
	}
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var input dto.EmailRequest
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return badRequest(c, "invalid input")
	}

	if err := h.userService.RequestOTP(c.Context(), input.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("OTP sent to %s", input.Email),
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.Email == "" || input.Password == "" || input.OTP == "" {
		return badRequest(c, "invalid input")
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	tokens, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var input dto.OTPVerifyInput
	if err := c.BodyParser(&input); err != nil || input.Email == "" || input.OTP == "" {
		return badRequest(c, "invalid input")
	}

	if err := h.userService.VerifyOTP(c.Context(), input.Email, input.OTP); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "OTP verified successfully"})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")

	user, err := h.userService.GetProfile(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	id := c.Params("id")

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil || input.OTP == "" {
		return badRequest(c, "invalid input")
	}

	if err := h.userService.UpdateProfile(c.Context(), id, input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User profile updated successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.EmailRequest
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return badRequest(c, "invalid input")
	}

	if err := h.userService.ForgotPassword(c.Context(), input.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "OTP has been sent to your email"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.Email == "" || input.OTP == "" || input.NewPassword == "" {
		return badRequest(c, "invalid input")
	}

	if err := h.userService.ResetPassword(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password has been reset successfully"})
}

// Logout revokes the presented token. Revoking an already-revoked token is
// reported as success.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw, err := middleware.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return respondError(c, err)
	}

	if h.blacklist.IsRevoked(raw) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Token already logged out"})
	}

	h.blacklist.Revoke(raw)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

// Protected is a smoke route proving the gate injected the caller's identity.
func (h *AuthHandler) Protected(c *fiber.Ctx) error {
	email, _ := c.Locals(middleware.EmailKey).(string)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome %s", email),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// respondError maps a service error to its transport status exactly once.
// Unrecognized errors are logged and masked.
func respondError(c *fiber.Ctx, err error) error {
	status := autherror.StatusCode(err)
	if status == http.StatusInternalServerError && !errors.Is(err, autherror.ErrOTPDelivery) {
		zap.L().Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
