package supplierController

import (
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	supplierValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/supplier"

	"github.com/gofiber/fiber/v2"
)

// CreateSupplier registers a supplier. The contact email must be unique among
// active suppliers.
func CreateSupplier(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCreateSupplier").(*supplierValidator.CreateSupplierRequest)

	db := database.Database.Db

	var existing models.Supplier
	if err := db.Where("email = ? AND is_active = true AND is_deleted = false", reqData.Email).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An active supplier already uses this email!", nil)
	}

	supplier := models.Supplier{
		CompanyName:           reqData.CompanyName,
		TradeName:             reqData.TradeName,
		CNPJ:                  reqData.CNPJ,
		Email:                 reqData.Email,
		Phone:                 reqData.Phone,
		Address:               reqData.Address,
		City:                  reqData.City,
		StateRegistration:     reqData.StateRegistration,
		MunicipalRegistration: reqData.MunicipalRegistration,
		Website:               reqData.Website,
	}
	if err := db.Create(&supplier).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create supplier!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Supplier created!", supplier)
}

// ListSuppliers lists suppliers with pagination
func ListSuppliers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Supplier{}).Where("is_deleted = false")

	if search := c.Query("search"); search != "" {
		query = query.Where("company_name ILIKE ? OR cnpj ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = true")
	}

	var total int64
	query.Count(&total)

	var suppliers []models.Supplier
	if err := query.Offset(offset).Limit(limit).Order("company_name ASC").Find(&suppliers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch suppliers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Suppliers fetched!", fiber.Map{
		"suppliers": suppliers,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeactivateSupplier flags a supplier inactive. Inactive suppliers cannot be
// dispatched to but their past quotations stay untouched.
func DeactivateSupplier(c *fiber.Ctx) error {
	supplierID, err := c.ParamsInt("id")
	if err != nil || supplierID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Supplier ID is required!", nil)
	}

	db := database.Database.Db

	result := db.Model(&models.Supplier{}).
		Where("id = ? AND is_deleted = false", supplierID).
		Update("is_active", false)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate supplier!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Supplier not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Supplier deactivated!", nil)
}
