package basketController

import (
	"errors"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"

	"github.com/gofiber/fiber/v2"
)

// GetBasketAggregation computes the basket's reference prices from the
// answered quotations. The computation is side effect free and reflects new
// answers every time it is called.
func GetBasketAggregation(c *fiber.Ctx) error {
	basketID, err := c.ParamsInt("id")
	if err != nil || basketID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Basket ID is required!", nil)
	}

	db := database.Database.Db

	aggregates, err := utils.AggregateBasket(db, uint(basketID))
	if err != nil {
		if errors.Is(err, utils.ErrBasketNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to aggregate basket!", nil)
	}

	unresolved := 0
	for _, agg := range aggregates {
		if agg.Unresolved {
			unresolved++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Aggregation computed!", fiber.Map{
		"basketId":        basketID,
		"items":           aggregates,
		"unresolvedCount": unresolved,
	})
}
