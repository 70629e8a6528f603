package basketRoutes

import (
	basketController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/basket"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	basketValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/basket"

	"github.com/gofiber/fiber/v2"
)

// SetupBasketRoutes sets up price basket management routes
func SetupBasketRoutes(app *fiber.App) {
	basketGroup := app.Group("/basket")

	// Basket CRUD
	basketGroup.Post("/create", basketValidator.CreateBasket(), middleware.JWTMiddleware, basketController.CreateBasket)
	basketGroup.Get("/list", middleware.JWTMiddleware, basketController.ListBaskets)

	// Item management
	basketGroup.Post("/item/add", basketValidator.AddBasketItem(), middleware.JWTMiddleware, basketController.AddBasketItem)
	basketGroup.Post("/item/remove", basketValidator.RemoveBasketItem(), middleware.JWTMiddleware, basketController.RemoveBasketItem)

	// Lifecycle
	basketGroup.Patch("/finalize/:id", middleware.JWTMiddleware, basketController.FinalizeBasket)

	// Aggregated prices (MUST come before /:id)
	basketGroup.Get("/aggregation/:id", middleware.JWTMiddleware, basketController.GetBasketAggregation)

	// Get basket by ID (MUST be last - catches all /:id patterns)
	basketGroup.Get("/:id", middleware.JWTMiddleware, basketController.GetBasketDetails)
}
