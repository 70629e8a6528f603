package utils

import (
	"errors"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"

	"gorm.io/gorm"
)

var (
	ErrIndexNotFound         = errors.New("monetary index not found")
	ErrInsufficientIndexData = errors.New("index has no usable values for the requested dates")
)

// CorrectedItem is one basket item re-expressed at the target date
type CorrectedItem struct {
	ItemAggregate
	CorrectedUnitPrice *float64 `json:"correctedUnitPrice"`
	CorrectedTotal     *float64 `json:"correctedTotalPrice"`
}

// CorrectionResult bundles the audit record with the derived item prices
type CorrectionResult struct {
	Correction models.PriceCorrection `json:"correction"`
	Items      []CorrectedItem        `json:"items"`
}

// CorrectionFactor computes value(targetDate) / value(baseDate) over a series
// of index points sorted ascending by date. Lookup between points follows the
// configured mode: nearest prior value, or linear interpolation. Dates outside
// the series range fail, there is no extrapolation.
func CorrectionFactor(values []models.IndexValue, baseDate, targetDate time.Time, lookup string) (float64, error) {
	baseValue, err := indexValueAt(values, baseDate, lookup)
	if err != nil {
		return 0, err
	}
	targetValue, err := indexValueAt(values, targetDate, lookup)
	if err != nil {
		return 0, err
	}
	if baseValue == 0 {
		return 0, ErrInsufficientIndexData
	}
	return targetValue / baseValue, nil
}

func indexValueAt(values []models.IndexValue, date time.Time, lookup string) (float64, error) {
	if len(values) == 0 {
		return 0, ErrInsufficientIndexData
	}
	first, last := values[0], values[len(values)-1]
	if date.Before(first.ReferenceDate) || date.After(last.ReferenceDate) {
		return 0, ErrInsufficientIndexData
	}

	// Find the points surrounding the date
	for i, point := range values {
		if point.ReferenceDate.Equal(date) {
			return point.Value, nil
		}
		if point.ReferenceDate.After(date) {
			prev := values[i-1]
			if lookup == config.LookupInterpolate {
				span := point.ReferenceDate.Sub(prev.ReferenceDate).Hours()
				offset := date.Sub(prev.ReferenceDate).Hours()
				return prev.Value + (point.Value-prev.Value)*(offset/span), nil
			}
			return prev.Value, nil
		}
	}

	return last.Value, nil
}

// ApplyCorrection computes the correction factor of an index between two
// dates, persists it as an immutable PriceCorrection record and returns the
// basket's aggregated prices re-expressed at the target date. The original
// aggregated prices are never mutated.
func ApplyCorrection(db *gorm.DB, basketID uint, indexID uint, baseDate, targetDate time.Time, appliedBy uint) (*CorrectionResult, error) {
	var index models.MonetaryIndex
	if err := db.Where("id = ? AND is_active = true", indexID).First(&index).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}

	var values []models.IndexValue
	if err := db.Where("index_id = ?", index.ID).Order("reference_date ASC").Find(&values).Error; err != nil {
		return nil, err
	}

	factor, err := CorrectionFactor(values, baseDate, targetDate, config.AppConfig.CorrectionLookup)
	if err != nil {
		return nil, err
	}

	aggregates, err := AggregateBasket(db, basketID)
	if err != nil {
		return nil, err
	}

	correction := models.PriceCorrection{
		BasketID:         basketID,
		IndexID:          index.ID,
		BaseDate:         baseDate,
		TargetDate:       targetDate,
		CorrectionFactor: factor,
		AppliedBy:        appliedBy,
		AppliedAt:        time.Now(),
	}
	if err := db.Create(&correction).Error; err != nil {
		return nil, err
	}

	items := make([]CorrectedItem, 0, len(aggregates))
	for _, agg := range aggregates {
		corrected := CorrectedItem{ItemAggregate: agg}
		if agg.AggregatedUnitPrice != nil {
			unit := *agg.AggregatedUnitPrice * factor
			total := unit * agg.Quantity
			corrected.CorrectedUnitPrice = &unit
			corrected.CorrectedTotal = &total
		}
		items = append(items, corrected)
	}

	return &CorrectionResult{Correction: correction, Items: items}, nil
}
