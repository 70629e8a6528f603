package indexController

import (
	"errors"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"
	indexValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/index"

	"github.com/gofiber/fiber/v2"
)

// ApplyCorrection re-expresses a basket's aggregated prices at a target date
// using a monetary index. The factor and its inputs are persisted as an
// immutable audit record; the aggregated prices themselves are not touched.
func ApplyCorrection(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedApplyCorrection").(*indexValidator.ApplyCorrectionRequest)

	db := database.Database.Db
	log := logger.WithComponent("correction")

	result, err := utils.ApplyCorrection(db, reqData.BasketID, reqData.IndexID, reqData.BaseDate, reqData.TargetDate, userId)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrBasketNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
		case errors.Is(err, utils.ErrIndexNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Index not found!", nil)
		case errors.Is(err, utils.ErrInsufficientIndexData):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false,
				"Index has no values covering the requested dates!", nil)
		default:
			log.WithError(err).Errorf("Error applying correction to basket %d", reqData.BasketID)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to apply correction!", nil)
		}
	}

	log.Infof("Correction %.6f applied to basket %d (index %d)", result.Correction.CorrectionFactor, reqData.BasketID, reqData.IndexID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Correction applied!", result)
}

// ListCorrections returns the correction history of a basket, newest first
func ListCorrections(c *fiber.Ctx) error {
	basketID, err := c.ParamsInt("basketId")
	if err != nil || basketID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Basket ID is required!", nil)
	}

	db := database.Database.Db

	var corrections []models.PriceCorrection
	if err := db.Where("basket_id = ?", basketID).
		Preload("Index").
		Order("applied_at DESC").
		Find(&corrections).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch corrections!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Corrections fetched!", corrections)
}
