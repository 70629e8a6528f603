package unitController

import (
	"strings"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"

	"github.com/gofiber/fiber/v2"
)

// CreateManagementUnit registers a requesting unit (secretaria, setor)
func CreateManagementUnit(c *fiber.Ctx) error {
	reqData := new(struct {
		Name    string `json:"name"`
		CNPJ    string `json:"cnpj"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if strings.TrimSpace(reqData.Name) == "" {
		errors["name"] = "Unit name is required!"
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	db := database.Database.Db

	unit := models.ManagementUnit{
		Name:    strings.TrimSpace(reqData.Name),
		CNPJ:    reqData.CNPJ,
		Address: reqData.Address,
		Phone:   reqData.Phone,
		Email:   strings.ToLower(strings.TrimSpace(reqData.Email)),
	}
	if err := db.Create(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create management unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Management unit created!", unit)
}

// ListManagementUnits lists active management units
func ListManagementUnits(c *fiber.Ctx) error {
	db := database.Database.Db

	var units []models.ManagementUnit
	if err := db.Where("is_active = true").Order("name ASC").Find(&units).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch management units!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Management units fetched!", units)
}
