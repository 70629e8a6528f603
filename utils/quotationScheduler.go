package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ProcessQuotationDeadlines is one sweep of the deadline monitor: it expires
// pending quotations past their due date and sends reminders for quotations
// entering the reminder window. A failure on one quotation never blocks the
// rest of the sweep.
func ProcessQuotationDeadlines(db *gorm.DB) {
	log := logger.WithComponent("quotation-scheduler")
	now := time.Now()

	// PENDING -> EXPIRED past due date. The status guard in the WHERE clause
	// is the compare-and-set that keeps expire and submit mutually exclusive.
	result := db.Model(&basket.Quotation{}).
		Where("status = ? AND due_date < ?", basket.StatusPending, now).
		Updates(map[string]interface{}{"status": basket.StatusExpired})
	if result.Error != nil {
		log.WithError(result.Error).Error("Error expiring quotations")
	} else if result.RowsAffected > 0 {
		log.Infof("Expired %d quotations past due date", result.RowsAffected)
	}

	sendDueDateReminders(db, now)
}

// sendDueDateReminders notifies suppliers whose quotations are inside the
// reminder window and have not been reminded within this window yet.
func sendDueDateReminders(db *gorm.DB, now time.Time) {
	log := logger.WithComponent("quotation-scheduler")
	window := time.Duration(config.AppConfig.ReminderWindowHours) * time.Hour

	var pending []basket.Quotation
	if err := db.
		Where("status = ? AND due_date > ? AND due_date <= ?", basket.StatusPending, now, now.Add(window)).
		Preload("Basket").
		Find(&pending).Error; err != nil {
		log.WithError(err).Error("Error fetching quotations for reminders")
		return
	}

	for _, quotation := range pending {
		// One reminder per window, not per sweep
		windowStart := quotation.DueDate.Add(-window)
		if quotation.ReminderSentAt != nil && quotation.ReminderSentAt.After(windowStart) {
			continue
		}

		var supplier models.Supplier
		if err := db.First(&supplier, quotation.SupplierID).Error; err != nil {
			log.WithError(err).Errorf("Error fetching supplier %d for quotation %d", quotation.SupplierID, quotation.ID)
			continue
		}

		var access basket.AccessToken
		if err := db.Where("quotation_id = ? AND revoked_at IS NULL", quotation.ID).
			Order("id DESC").First(&access).Error; err != nil {
			log.WithError(err).Errorf("No active token for quotation %d, skipping reminder", quotation.ID)
			continue
		}

		daysRemaining := int(math.Ceil(quotation.DueDate.Sub(now).Hours() / 24))
		err := Mailer.Send(supplier.Email, supplier.CompanyName, TemplateQuotationReminder, map[string]string{
			"supplier_name":  supplier.CompanyName,
			"basket_name":    quotation.Basket.Name,
			"due_date":       quotation.DueDate.Format("02/01/2006 15:04"),
			"days_remaining": fmt.Sprintf("%d", daysRemaining),
			"portal_url":     PortalURL(access.Token),
		})
		if err != nil {
			// Notifier failure is non fatal, the next sweep retries
			log.WithError(err).Errorf("Error sending reminder for quotation %d", quotation.ID)
			continue
		}

		if err := db.Model(&basket.Quotation{}).Where("id = ?", quotation.ID).
			Update("reminder_sent_at", now).Error; err != nil {
			log.WithError(err).Errorf("Error recording reminder for quotation %d", quotation.ID)
			continue
		}
		log.Infof("Sent due date reminder for quotation %d to %s", quotation.ID, supplier.Email)
	}
}

// InitializeQuotationScheduler starts the periodic deadline sweep
func InitializeQuotationScheduler() *cron.Cron {
	log := logger.WithComponent("quotation-scheduler")

	c := cron.New()
	spec := fmt.Sprintf("@every %dm", config.AppConfig.SweepIntervalMinutes)
	c.AddFunc(spec, func() {
		ProcessQuotationDeadlines(database.Database.Db)
	})
	c.Start()

	log.Infof("Quotation deadline scheduler started - runs %s", spec)
	return c
}
