package productRoutes

import (
	productController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/product"
	unitController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/unit"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupProductRoutes sets up catalog routes for products, categories,
// measurement units and management units
func SetupProductRoutes(app *fiber.App) {
	productGroup := app.Group("/product")

	productGroup.Post("/create", middleware.JWTMiddleware, productController.CreateProduct)
	productGroup.Get("/list", middleware.JWTMiddleware, productController.ListProducts)

	productGroup.Post("/category/create", middleware.JWTMiddleware, productController.CreateCategory)
	productGroup.Get("/category/list", middleware.JWTMiddleware, productController.ListCategories)

	productGroup.Post("/measurement-unit/create", middleware.JWTMiddleware, productController.CreateMeasurementUnit)

	unitGroup := app.Group("/management-unit")

	unitGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), unitController.CreateManagementUnit)
	unitGroup.Get("/list", middleware.JWTMiddleware, unitController.ListManagementUnits)
}
