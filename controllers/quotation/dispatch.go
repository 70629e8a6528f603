package quotationController

import (
	"fmt"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"
	quotationValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/quotation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Per-supplier dispatch outcomes
const (
	OutcomeSent             = "sent"
	OutcomeSkippedDuplicate = "skipped_duplicate"
	OutcomeNotifierFailed   = "notifier_failed"
)

// SupplierOutcome is the dispatch result for one supplier
type SupplierOutcome struct {
	SupplierID   uint   `json:"supplierId"`
	SupplierName string `json:"supplierName"`
	Email        string `json:"email"`
	Outcome      string `json:"outcome"`
	Error        string `json:"error,omitempty"`
}

// DispatchQuotations creates one pending quotation per (basket, supplier)
// pair, issues an access token for each and emails the invitation. A notifier
// failure for one supplier does not roll back its quotation, the pair stays
// dispatchable for re-notification.
func DispatchQuotations(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDispatch").(*quotationValidator.DispatchRequest)
	db := database.Database.Db
	log := logger.WithComponent("dispatcher")
	now := time.Now()

	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", reqData.BasketID).
		Preload("Items").First(&bk).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Basket not found!", nil)
	}

	if bk.IsFinalized {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Basket is finalized, quotations are closed!", nil)
	}

	var suppliers []models.Supplier
	if err := db.Where("id IN ? AND is_active = true AND is_deleted = false", reqData.SupplierIDs).
		Find(&suppliers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch suppliers!", nil)
	}

	if len(suppliers) != len(reqData.SupplierIDs) {
		found := make(map[uint]bool, len(suppliers))
		for _, s := range suppliers {
			found[s.ID] = true
		}
		missing := make([]uint, 0)
		for _, id := range reqData.SupplierIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Some suppliers are unknown or inactive!", fiber.Map{
			"missingSupplierIds": missing,
		})
	}

	batchID := uuid.NewString()
	outcomes := make([]SupplierOutcome, 0, len(suppliers))
	sentCount := 0

	for _, supplier := range suppliers {
		outcome := dispatchToSupplier(db, &bk, &supplier, reqData.DueDate, batchID, now)
		if outcome.Outcome == OutcomeSent {
			sentCount++
		}
		outcomes = append(outcomes, outcome)
	}

	log.Infof("Dispatched basket %d to %d/%d suppliers (batch %s)", bk.ID, sentCount, len(suppliers), batchID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dispatch processed!", fiber.Map{
		"batchId":   batchID,
		"results":   outcomes,
		"sentCount": sentCount,
	})
}

// dispatchToSupplier handles one (basket, supplier) pair. Dispatch is
// idempotent per supplier: an active quotation makes the pair a duplicate, a
// pending one that was never notified gets re-notified with a fresh token.
func dispatchToSupplier(db *gorm.DB, bk *basket.Basket, supplier *models.Supplier, dueDate time.Time, batchID string, now time.Time) SupplierOutcome {
	log := logger.WithComponent("dispatcher")
	outcome := SupplierOutcome{
		SupplierID:   supplier.ID,
		SupplierName: supplier.CompanyName,
		Email:        supplier.Email,
	}

	// An answered quotation, or a pending one still inside its due date,
	// blocks a new dispatch for this pair
	var existing basket.Quotation
	err := db.Where("basket_id = ? AND supplier_id = ?", bk.ID, supplier.ID).
		Where("status = ? OR (status = ? AND due_date > ?)", basket.StatusAnswered, basket.StatusPending, now).
		Order("id DESC").First(&existing).Error
	if err == nil {
		if existing.Status == basket.StatusPending && existing.SentAt == nil {
			// Created earlier but never notified, retry the notification
			return notifyQuotation(db, bk, supplier, &existing, outcome)
		}
		outcome.Outcome = OutcomeSkippedDuplicate
		return outcome
	}

	quotation := basket.Quotation{
		BasketID:   bk.ID,
		SupplierID: supplier.ID,
		Status:     basket.StatusPending,
		DueDate:    dueDate,
		BatchID:    batchID,
	}
	if err := db.Create(&quotation).Error; err != nil {
		log.WithError(err).Errorf("Error creating quotation for supplier %d", supplier.ID)
		outcome.Outcome = OutcomeNotifierFailed
		outcome.Error = "failed to create quotation"
		return outcome
	}

	return notifyQuotation(db, bk, supplier, &quotation, outcome)
}

func notifyQuotation(db *gorm.DB, bk *basket.Basket, supplier *models.Supplier, quotation *basket.Quotation, outcome SupplierOutcome) SupplierOutcome {
	log := logger.WithComponent("dispatcher")

	token, err := utils.IssueAccessToken(db, quotation.ID)
	if err != nil {
		log.WithError(err).Errorf("Error issuing token for quotation %d", quotation.ID)
		outcome.Outcome = OutcomeNotifierFailed
		outcome.Error = "failed to issue access token"
		return outcome
	}

	var unit models.ManagementUnit
	db.First(&unit, bk.ManagementUnitID)

	err = utils.Mailer.Send(supplier.Email, supplier.CompanyName, utils.TemplateQuotationInvite, map[string]string{
		"supplier_name":   supplier.CompanyName,
		"basket_name":     bk.Name,
		"management_unit": unit.Name,
		"item_count":      fmt.Sprintf("%d", len(bk.Items)),
		"due_date":        quotation.DueDate.Format("02/01/2006 15:04"),
		"portal_url":      utils.PortalURL(token),
	})
	if err != nil {
		// The quotation stays pending, a later dispatch retries the email
		log.WithError(err).Errorf("Error notifying supplier %d for quotation %d", supplier.ID, quotation.ID)
		outcome.Outcome = OutcomeNotifierFailed
		outcome.Error = err.Error()
		return outcome
	}

	now := time.Now()
	db.Model(&basket.Quotation{}).Where("id = ?", quotation.ID).Update("sent_at", now)

	outcome.Outcome = OutcomeSent
	return outcome
}
