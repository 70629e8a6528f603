package quotationRoutes

import (
	quotationController "github.com/CDdesenvolvimentoweb/cestas-publicas-web/controllers/quotation"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	quotationValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/quotation"

	"github.com/gofiber/fiber/v2"
)

// SetupQuotationRoutes sets up quotation dispatch and tracking routes
func SetupQuotationRoutes(app *fiber.App) {
	quotationGroup := app.Group("/quotation")

	quotationGroup.Post("/dispatch", quotationValidator.Dispatch(), middleware.JWTMiddleware, quotationController.DispatchQuotations)
	quotationGroup.Get("/summary/:basketId", middleware.JWTMiddleware, quotationController.GetBasketQuotationSummary)
}

// SetupPortalRoutes sets up the public supplier portal. Suppliers authenticate
// with the access token from their invitation email, not with a JWT.
func SetupPortalRoutes(app *fiber.App) {
	portalGroup := app.Group("/portal")

	portalGroup.Get("/quotation/:token", quotationController.GetQuotationByToken)
	portalGroup.Post("/quotation/:token/submit", quotationValidator.Submit(), quotationController.SubmitQuotation)
}
