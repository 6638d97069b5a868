package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/auth")

	auth.Post("/send-otp", h.SendOTP)
	auth.Post("/create", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/verify-otp", h.VerifyOTP)
	auth.Post("/forget", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	// Guarded by the JWT middleware: none of these appear on the exempt list.
	auth.Get("/protected", h.Protected)
	auth.Get("/profile/:id", h.GetProfile)
	auth.Put("/profile/:id", h.UpdateProfile)
	auth.Post("/logout", h.Logout)
}
