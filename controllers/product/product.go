package productController

import (
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Category trees are stored as parent ids and traversed with a fixed depth
// bound, so malformed (cyclic) data cannot cause unbounded recursion.
const maxCategoryDepth = 5

// CreateProduct registers a catalog product
func CreateProduct(c *fiber.Ctx) error {
	reqData := new(struct {
		Name              string `json:"name"`
		Code              string `json:"code"`
		Description       string `json:"description"`
		Specification     string `json:"specification"`
		AnvisaCode        string `json:"anvisaCode"`
		CategoryID        uint   `json:"categoryId"`
		MeasurementUnitID uint   `json:"measurementUnitId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if reqData.Name == "" {
		errors["name"] = "Product name is required!"
	}
	if reqData.CategoryID == 0 {
		errors["categoryId"] = "Category is required!"
	}
	if reqData.MeasurementUnitID == 0 {
		errors["measurementUnitId"] = "Measurement unit is required!"
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	db := database.Database.Db

	var category models.ProductCategory
	if err := db.Where("id = ? AND is_active = true", reqData.CategoryID).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}
	var unit models.MeasurementUnit
	if err := db.First(&unit, reqData.MeasurementUnitID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Measurement unit not found!", nil)
	}

	product := models.Product{
		Name:              reqData.Name,
		Code:              reqData.Code,
		Description:       reqData.Description,
		Specification:     reqData.Specification,
		AnvisaCode:        reqData.AnvisaCode,
		CategoryID:        category.ID,
		MeasurementUnitID: unit.ID,
	}
	if err := db.Create(&product).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create product!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Product created!", product)
}

// ListProducts lists active products with pagination
func ListProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Product{}).Where("is_active = true")

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if categoryID := c.QueryInt("categoryId", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Preload("Category").Preload("MeasurementUnit").
		Offset(offset).Limit(limit).Order("name ASC").Find(&products).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch products!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Products fetched!", fiber.Map{
		"products": products,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateCategory registers a product category, optionally under a parent
func CreateCategory(c *fiber.Ctx) error {
	reqData := new(struct {
		Name        string `json:"name"`
		Code        string `json:"code"`
		Description string `json:"description"`
		ParentID    *uint  `json:"parentId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"name": "Category name is required!"})
	}

	db := database.Database.Db

	if reqData.ParentID != nil {
		depth, err := categoryDepth(db, *reqData.ParentID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent category not found!", nil)
		}
		if depth+1 >= maxCategoryDepth {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Category tree is too deep!", nil)
		}
	}

	category := models.ProductCategory{
		Name:        reqData.Name,
		Code:        reqData.Code,
		Description: reqData.Description,
		ParentID:    reqData.ParentID,
	}
	if err := db.Create(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created!", category)
}

// categoryDepth walks up the parent chain, at most maxCategoryDepth steps
func categoryDepth(db *gorm.DB, id uint) (int, error) {
	depth := 0
	current := &id
	for current != nil && depth < maxCategoryDepth {
		var category models.ProductCategory
		if err := db.Select("id", "parent_id").First(&category, *current).Error; err != nil {
			return 0, err
		}
		if category.ParentID == nil {
			return depth, nil
		}
		current = category.ParentID
		depth++
	}
	return depth, nil
}

// ListCategories returns the category tree flattened with a depth per node
func ListCategories(c *fiber.Ctx) error {
	db := database.Database.Db

	var categories []models.ProductCategory
	if err := db.Where("is_active = true").Order("name ASC").Find(&categories).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	parentByID := make(map[uint]*uint, len(categories))
	for _, cat := range categories {
		parentByID[cat.ID] = cat.ParentID
	}

	type categoryNode struct {
		models.ProductCategory
		Depth int `json:"depth"`
	}

	nodes := make([]categoryNode, 0, len(categories))
	for _, cat := range categories {
		depth := 0
		parent := cat.ParentID
		for parent != nil && depth < maxCategoryDepth {
			depth++
			parent = parentByID[*parent]
		}
		nodes = append(nodes, categoryNode{ProductCategory: cat, Depth: depth})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched!", nodes)
}

// CreateMeasurementUnit registers a measurement unit
func CreateMeasurementUnit(c *fiber.Ctx) error {
	reqData := new(struct {
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
		Description  string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if reqData.Name == "" {
		errors["name"] = "Unit name is required!"
	}
	if reqData.Abbreviation == "" {
		errors["abbreviation"] = "Abbreviation is required!"
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	db := database.Database.Db

	unit := models.MeasurementUnit{
		Name:         reqData.Name,
		Abbreviation: reqData.Abbreviation,
		Description:  reqData.Description,
	}
	if err := db.Create(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create measurement unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Measurement unit created!", unit)
}
