package quotationController

import (
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"github.com/gofiber/fiber/v2"
)

// GetBasketQuotationSummary returns the quotation counts of a basket and the
// per-supplier response state, for the admin surface.
func GetBasketQuotationSummary(c *fiber.Ctx) error {
	basketID, err := c.ParamsInt("basketId")
	if err != nil || basketID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Basket ID is required!", nil)
	}

	db := database.Database.Db

	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", basketID).First(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
	}

	var quotations []basket.Quotation
	if err := db.Where("basket_id = ?", bk.ID).Order("id ASC").Find(&quotations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quotations!", nil)
	}

	counts := map[string]int{
		basket.StatusPending:  0,
		basket.StatusAnswered: 0,
		basket.StatusExpired:  0,
	}

	type quotationRow struct {
		basket.Quotation
		SupplierName string `json:"supplierName"`
	}

	rows := make([]quotationRow, 0, len(quotations))
	for _, q := range quotations {
		counts[q.Status]++

		var supplier models.Supplier
		db.Select("company_name").First(&supplier, q.SupplierID)
		rows = append(rows, quotationRow{Quotation: q, SupplierName: supplier.CompanyName})
	}

	responseRate := 0.0
	if len(quotations) > 0 {
		responseRate = float64(counts[basket.StatusAnswered]) / float64(len(quotations))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quotation summary fetched!", fiber.Map{
		"basketId":     bk.ID,
		"isFinalized":  bk.IsFinalized,
		"total":        len(quotations),
		"pending":      counts[basket.StatusPending],
		"answered":     counts[basket.StatusAnswered],
		"expired":      counts[basket.StatusExpired],
		"responseRate": responseRate,
		"quotations":   rows,
	})
}
