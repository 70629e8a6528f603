package indexRoutes

import (
	indexController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/index"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	indexValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/index"

	"github.com/gofiber/fiber/v2"
)

// SetupIndexRoutes sets up monetary index and price correction routes
func SetupIndexRoutes(app *fiber.App) {
	indexGroup := app.Group("/index")

	indexGroup.Post("/create", indexValidator.CreateIndex(), middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), indexController.CreateIndex)
	indexGroup.Get("/list", middleware.JWTMiddleware, indexController.ListIndexes)
	indexGroup.Post("/value/add", indexValidator.AddIndexValue(), middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), indexController.AddIndexValue)
	indexGroup.Get("/values/:id", middleware.JWTMiddleware, indexController.ListIndexValues)
	indexGroup.Post("/sync/:id", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), indexController.SyncIndex)

	correctionGroup := app.Group("/correction")

	correctionGroup.Post("/apply", indexValidator.ApplyCorrection(), middleware.JWTMiddleware, indexController.ApplyCorrection)
	correctionGroup.Get("/list/:basketId", middleware.JWTMiddleware, indexController.ListCorrections)
}
