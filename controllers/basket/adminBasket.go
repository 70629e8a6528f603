package basketController

import (
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"
	basketValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/basket"

	"github.com/gofiber/fiber/v2"
)

// CreateBasket creates a price basket for the caller's management unit
func CreateBasket(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData := c.Locals("validatedCreateBasket").(*basketValidator.CreateBasketRequest)

	db := database.Database.Db

	var unit models.ManagementUnit
	if err := db.Where("id = ? AND is_active = true", reqData.ManagementUnitID).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Management unit not found!", nil)
	}

	bk := basket.Basket{
		Name:             reqData.Name,
		Description:      reqData.Description,
		ReferenceDate:    reqData.ReferenceDate,
		CalculationType:  reqData.CalculationType,
		ManagementUnitID: reqData.ManagementUnitID,
		CreatedBy:        userId,
	}
	if err := db.Create(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create basket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Basket created!", bk)
}

// ListBaskets lists baskets with pagination
func ListBaskets(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&basket.Basket{}).Where("is_deleted = false")

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if unitID := c.QueryInt("managementUnitId", 0); unitID > 0 {
		query = query.Where("management_unit_id = ?", unitID)
	}

	var total int64
	query.Count(&total)

	var baskets []basket.Basket
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&baskets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch baskets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Baskets fetched!", fiber.Map{
		"baskets": baskets,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetBasketDetails returns one basket with its items
func GetBasketDetails(c *fiber.Ctx) error {
	basketID, err := c.ParamsInt("id")
	if err != nil || basketID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Basket ID is required!", nil)
	}

	db := database.Database.Db

	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", basketID).Preload("Items").First(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Basket fetched!", bk)
}

// AddBasketItem adds a product line to a basket
func AddBasketItem(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAddBasketItem").(*basketValidator.AddBasketItemRequest)

	db := database.Database.Db

	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", reqData.BasketID).First(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
	}
	if bk.IsFinalized {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Basket is finalized, items are immutable!", nil)
	}

	var product models.Product
	if err := db.Where("id = ? AND is_active = true", reqData.ProductID).First(&product).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Product not found!", nil)
	}

	item := basket.BasketItem{
		BasketID:     bk.ID,
		ProductID:    product.ID,
		Quantity:     reqData.Quantity,
		LotNumber:    reqData.LotNumber,
		Observations: reqData.Observations,
	}
	if err := db.Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Item added!", item)
}

// RemoveBasketItem removes a product line from a basket
func RemoveBasketItem(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRemoveBasketItem").(*struct {
		BasketID uint `json:"basketId"`
		ItemID   uint `json:"itemId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", reqData.BasketID).First(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
	}
	if bk.IsFinalized {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Basket is finalized, items are immutable!", nil)
	}

	result := db.Where("id = ? AND basket_id = ?", reqData.ItemID, bk.ID).Delete(&basket.BasketItem{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove item!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket item not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item removed!", nil)
}

// FinalizeBasket closes a basket. Once finalized its items and quotations are
// immutable and every mutating entry point rejects it.
func FinalizeBasket(c *fiber.Ctx) error {
	basketID, err := c.ParamsInt("id")
	if err != nil || basketID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Basket ID is required!", nil)
	}

	db := database.Database.Db
	log := logger.WithComponent("basket")

	result := db.Model(&basket.Basket{}).
		Where("id = ? AND is_deleted = false AND is_finalized = false", basketID).
		Updates(map[string]interface{}{"is_finalized": true, "updated_at": time.Now()})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finalize basket!", nil)
	}
	if result.RowsAffected == 0 {
		var bk basket.Basket
		if err := db.Where("id = ? AND is_deleted = false", basketID).First(&bk).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Basket is already finalized!", nil)
	}

	log.Infof("Basket %d finalized", basketID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Basket finalized!", nil)
}
