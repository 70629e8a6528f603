package supplierRoutes

import (
	supplierController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/supplier"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	supplierValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/supplier"

	"github.com/gofiber/fiber/v2"
)

// SetupSupplierRoutes sets up supplier registry routes
func SetupSupplierRoutes(app *fiber.App) {
	supplierGroup := app.Group("/supplier")

	supplierGroup.Post("/create", supplierValidator.CreateSupplier(), middleware.JWTMiddleware, supplierController.CreateSupplier)
	supplierGroup.Get("/list", middleware.JWTMiddleware, supplierController.ListSuppliers)
	supplierGroup.Patch("/deactivate/:id", middleware.JWTMiddleware, supplierController.DeactivateSupplier)
}
