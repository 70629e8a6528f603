package indexController

import (
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"
	indexValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/index"

	"github.com/gofiber/fiber/v2"
)

// CreateIndex registers a monetary index
func CreateIndex(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateIndex").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SourceURL   string `json:"sourceUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	index := models.MonetaryIndex{
		Name:        reqData.Name,
		Description: reqData.Description,
		SourceURL:   reqData.SourceURL,
	}
	if err := db.Create(&index).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Index name already exists!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Index created!", index)
}

// ListIndexes lists active monetary indexes
func ListIndexes(c *fiber.Ctx) error {
	db := database.Database.Db

	var indexes []models.MonetaryIndex
	if err := db.Where("is_active = true").Order("name ASC").Find(&indexes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch indexes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Indexes fetched!", indexes)
}

// AddIndexValue appends one point to an index series. Dates are unique per
// index, a repeated date is rejected.
func AddIndexValue(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAddIndexValue").(*indexValidator.AddIndexValueRequest)

	db := database.Database.Db

	var index models.MonetaryIndex
	if err := db.Where("id = ? AND is_active = true", reqData.IndexID).First(&index).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Index not found!", nil)
	}

	var existing models.IndexValue
	if err := db.Where("index_id = ? AND reference_date = ?", index.ID, reqData.ReferenceDate).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Index already has a value for this date!", nil)
	}

	value := models.IndexValue{
		IndexID:       index.ID,
		ReferenceDate: reqData.ReferenceDate,
		Value:         reqData.Value,
	}
	if err := db.Create(&value).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add index value!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Index value added!", value)
}

// ListIndexValues returns the value series of an index, date ascending
func ListIndexValues(c *fiber.Ctx) error {
	indexID, err := c.ParamsInt("id")
	if err != nil || indexID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Index ID is required!", nil)
	}

	db := database.Database.Db

	var values []models.IndexValue
	if err := db.Where("index_id = ?", indexID).Order("reference_date ASC").Find(&values).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch index values!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Index values fetched!", values)
}

// SyncIndex triggers a manual sync of an index from its source URL
func SyncIndex(c *fiber.Ctx) error {
	indexID, err := c.ParamsInt("id")
	if err != nil || indexID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Index ID is required!", nil)
	}

	db := database.Database.Db

	var index models.MonetaryIndex
	if err := db.Where("id = ? AND is_active = true", indexID).First(&index).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Index not found!", nil)
	}

	if err := utils.SyncIndexValues(db, index, "manual"); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Index sync failed!", fiber.Map{
			"error": err.Error(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Index synced!", nil)
}
