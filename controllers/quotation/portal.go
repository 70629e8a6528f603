package quotationController

import (
	"errors"
	"strconv"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"
	quotationValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/quotation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetQuotationByToken returns the quotation bound to a portal token, with the
// basket items to be priced and any prices already submitted. Reading never
// consumes the token.
func GetQuotationByToken(c *fiber.Ctx) error {
	db := database.Database.Db

	quotation, err := utils.ValidateAccessToken(db, c.Params("token"))
	if err != nil {
		return tokenErrorResponse(c, err)
	}

	var bk basket.Basket
	if err := db.Preload("Items").First(&bk, quotation.BasketID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch basket!", nil)
	}

	var quoteItems []basket.QuoteItem
	db.Where("quotation_id = ?", quotation.ID).Find(&quoteItems)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quotation fetched!", fiber.Map{
		"quotation": fiber.Map{
			"id":          quotation.ID,
			"status":      quotation.Status,
			"dueDate":     quotation.DueDate,
			"respondedAt": quotation.RespondedAt,
		},
		"basket": fiber.Map{
			"name":          bk.Name,
			"referenceDate": bk.ReferenceDate,
			"items":         bk.Items,
		},
		"submittedItems": quoteItems,
	})
}

// SubmitQuotation is the supplier response entry point, authenticated solely
// by the portal token. It replaces all quote items of the quotation and moves
// it to ANSWERED. Resubmission before the due date overwrites the previous
// answer; the due date check is authoritative, not the monitor sweep.
func SubmitQuotation(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSubmit").(*quotationValidator.SubmitRequest)
	db := database.Database.Db
	log := logger.WithComponent("collector")
	token := c.Params("token")
	now := time.Now()

	quotation, err := utils.ValidateAccessToken(db, token)
	if err != nil {
		return tokenErrorResponse(c, err)
	}

	if quotation.Status == basket.StatusExpired || !quotation.DueDate.After(now) {
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Quotation deadline has passed!", nil)
	}

	var bk basket.Basket
	if err := db.Preload("Items").First(&bk, quotation.BasketID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch basket!", nil)
	}
	if bk.IsFinalized {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Basket is finalized, quotations are closed!", nil)
	}

	// Every submitted line must reference an item of this basket, once
	quantityByItem := make(map[uint]float64, len(bk.Items))
	for _, item := range bk.Items {
		quantityByItem[item.ID] = item.Quantity
	}

	itemErrors := make(map[string]string)
	seen := make(map[uint]bool, len(reqData.Items))
	for _, line := range reqData.Items {
		key := "basketItemId:" + itoa(line.BasketItemID)
		if _, ok := quantityByItem[line.BasketItemID]; !ok {
			itemErrors[key] = "Unknown basket item!"
			continue
		}
		if seen[line.BasketItemID] {
			itemErrors[key] = "Duplicate basket item in submission!"
			continue
		}
		seen[line.BasketItemID] = true
	}
	if len(itemErrors) > 0 {
		return middleware.ValidationErrorResponse(c, itemErrors)
	}

	for _, line := range reqData.Items {
		if line.UnitPrice < 0 {
			itemErrors["basketItemId:"+itoa(line.BasketItemID)] = "Unit price must not be negative!"
		}
	}
	if len(itemErrors) > 0 {
		return middleware.ValidationErrorResponse(c, itemErrors)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Replace all quote items for this quotation
		if err := tx.Unscoped().Where("quotation_id = ?", quotation.ID).Delete(&basket.QuoteItem{}).Error; err != nil {
			return err
		}

		for _, line := range reqData.Items {
			quoteItem := basket.QuoteItem{
				QuotationID:  quotation.ID,
				BasketItemID: line.BasketItemID,
				UnitPrice:    line.UnitPrice,
				TotalPrice:   line.UnitPrice * quantityByItem[line.BasketItemID],
				Brand:        line.Brand,
				Observations: line.Observations,
			}
			if err := tx.Create(&quoteItem).Error; err != nil {
				return err
			}
		}

		// Compare-and-set from PENDING keeps a concurrent expire sweep and
		// this answer from both succeeding
		result := tx.Model(&basket.Quotation{}).
			Where("id = ? AND status = ?", quotation.ID, basket.StatusPending).
			Updates(map[string]interface{}{"status": basket.StatusAnswered, "responded_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current basket.Quotation
			if err := tx.First(&current, quotation.ID).Error; err != nil {
				return err
			}
			if current.Status != basket.StatusAnswered {
				return utils.ErrTokenExpired
			}
			// Resubmission of an answered quotation, refresh the timestamp
			if err := tx.Model(&basket.Quotation{}).Where("id = ?", quotation.ID).
				Update("responded_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return middleware.JsonResponse(c, fiber.StatusGone, false, "Quotation deadline has passed!", nil)
		}
		log.WithError(err).Errorf("Error persisting submission for quotation %d", quotation.ID)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save submission!", nil)
	}

	if err := utils.MarkTokenUsed(db, token); err != nil {
		log.WithError(err).Warnf("Error marking token used for quotation %d", quotation.ID)
	}

	log.Infof("Quotation %d answered with %d items", quotation.ID, len(reqData.Items))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quotation submitted!", fiber.Map{
		"quotationId": quotation.ID,
		"itemCount":   len(reqData.Items),
		"respondedAt": now,
	})
}

func tokenErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Access token expired!", nil)
	case errors.Is(err, utils.ErrInvalidToken):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid access token!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to validate token!", nil)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
