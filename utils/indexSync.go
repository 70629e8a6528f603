package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// externalIndexPoint is the payload shape of official index APIs
// (IBGE/SGS style: one point per period).
type externalIndexPoint struct {
	Date  string  `json:"data"`
	Value float64 `json:"valor,string"`
}

// SyncIndexValues pulls the value series of one monetary index from its
// configured source URL and upserts the points by reference date. Every run
// is recorded in index_sync_logs.
func SyncIndexValues(db *gorm.DB, index models.MonetaryIndex, syncType string) error {
	log := logger.WithComponent("index-sync")

	syncLog := models.IndexSyncLog{
		RunID:    uuid.NewString(),
		IndexID:  index.ID,
		SyncType: syncType,
		Status:   "running",
	}
	if err := db.Create(&syncLog).Error; err != nil {
		return err
	}

	finish := func(status string, processed int, errMsg string) {
		now := time.Now()
		db.Model(&syncLog).Updates(map[string]interface{}{
			"status":            status,
			"records_processed": processed,
			"error_message":     errMsg,
			"completed_at":      now,
		})
	}

	if index.SourceURL == "" {
		finish("failed", 0, "index has no source URL")
		return fmt.Errorf("index %d has no source URL", index.ID)
	}

	client := resty.New().SetTimeout(30 * time.Second)
	resp, err := client.R().SetHeader("Accept", "application/json").Get(index.SourceURL)
	if err != nil {
		finish("failed", 0, err.Error())
		return err
	}
	if resp.IsError() {
		msg := fmt.Sprintf("source returned %d", resp.StatusCode())
		finish("failed", 0, msg)
		return fmt.Errorf("index sync: %s", msg)
	}

	var points []externalIndexPoint
	if err := json.Unmarshal(resp.Body(), &points); err != nil {
		finish("failed", 0, err.Error())
		return err
	}

	processed := 0
	for _, point := range points {
		refDate, err := time.Parse("02/01/2006", point.Date)
		if err != nil {
			if refDate, err = time.Parse("2006-01-02", point.Date); err != nil {
				log.Warnf("Skipping point with unparseable date %q for index %d", point.Date, index.ID)
				continue
			}
		}

		value := models.IndexValue{
			IndexID:       index.ID,
			ReferenceDate: refDate,
			Value:         point.Value,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "index_id"}, {Name: "reference_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&value).Error; err != nil {
			log.WithError(err).Errorf("Error upserting index value for index %d", index.ID)
			continue
		}
		processed++
	}

	finish("completed", processed, "")
	log.Infof("Synced %d values for index %s (run %s)", processed, index.Name, syncLog.RunID)
	return nil
}

// SyncAllIndexes runs the sync for every active index that has a source URL
func SyncAllIndexes(db *gorm.DB, syncType string) {
	log := logger.WithComponent("index-sync")

	var indexes []models.MonetaryIndex
	if err := db.Where("is_active = true AND source_url <> ''").Find(&indexes).Error; err != nil {
		log.WithError(err).Error("Error fetching indexes for sync")
		return
	}

	for _, index := range indexes {
		if err := SyncIndexValues(db, index, syncType); err != nil {
			log.WithError(err).Errorf("Sync failed for index %s", index.Name)
		}
	}
}

// InitializeIndexSyncScheduler starts the periodic index sync when configured
func InitializeIndexSyncScheduler() *cron.Cron {
	log := logger.WithComponent("index-sync")

	if config.AppConfig.IndexSyncCron == "" {
		log.Info("INDEX_SYNC_CRON not set, external index sync disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(config.AppConfig.IndexSyncCron, func() {
		SyncAllIndexes(database.Database.Db, "scheduled")
	}); err != nil {
		log.WithError(err).Error("Invalid INDEX_SYNC_CRON, external index sync disabled")
		return nil
	}
	c.Start()

	log.Infof("Index sync scheduler started - cron %q", config.AppConfig.IndexSyncCron)
	return c
}
