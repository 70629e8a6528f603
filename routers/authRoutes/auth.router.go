package authRoutes

import (
	authController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/auth"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), authController.Signup)
	authGroup.Post("/login", authController.Login)
}
