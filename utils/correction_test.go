package utils

import (
	"testing"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func indexSeries(points map[time.Time]float64) []models.IndexValue {
	values := make([]models.IndexValue, 0, len(points))
	for date, value := range points {
		values = append(values, models.IndexValue{ReferenceDate: date, Value: value})
	}
	// Callers pass sorted maps of few entries, sort by date for determinism
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[j].ReferenceDate.Before(values[i].ReferenceDate) {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
	return values
}

func TestCorrectionFactorExactDates(t *testing.T) {
	values := indexSeries(map[time.Time]float64{
		day(2025, 1, 1): 100,
		day(2025, 2, 1): 110,
	})

	factor, err := CorrectionFactor(values, day(2025, 1, 1), day(2025, 2, 1), config.LookupNearestPrior)
	require.NoError(t, err)
	require.InDelta(t, 1.1, factor, 1e-9)
}

func TestCorrectionFactorNearestPrior(t *testing.T) {
	values := indexSeries(map[time.Time]float64{
		day(2025, 1, 1): 100,
		day(2025, 2, 1): 110,
		day(2025, 3, 1): 120,
	})

	// 2025-02-15 has no point, nearest prior is the February value
	factor, err := CorrectionFactor(values, day(2025, 1, 1), day(2025, 2, 15), config.LookupNearestPrior)
	require.NoError(t, err)
	require.InDelta(t, 1.1, factor, 1e-9)
}

func TestCorrectionFactorInterpolate(t *testing.T) {
	values := indexSeries(map[time.Time]float64{
		day(2025, 1, 1):  100,
		day(2025, 1, 11): 110,
	})

	// Halfway between the two points
	factor, err := CorrectionFactor(values, day(2025, 1, 1), day(2025, 1, 6), config.LookupInterpolate)
	require.NoError(t, err)
	require.InDelta(t, 1.05, factor, 1e-9)
}

func TestCorrectionFactorNoExtrapolation(t *testing.T) {
	values := indexSeries(map[time.Time]float64{
		day(2025, 1, 1): 100,
		day(2025, 2, 1): 110,
	})

	_, err := CorrectionFactor(values, day(2025, 1, 1), day(2025, 3, 1), config.LookupNearestPrior)
	require.ErrorIs(t, err, ErrInsufficientIndexData)

	_, err = CorrectionFactor(values, day(2024, 12, 1), day(2025, 2, 1), config.LookupNearestPrior)
	require.ErrorIs(t, err, ErrInsufficientIndexData)
}

func TestCorrectionFactorEmptySeries(t *testing.T) {
	_, err := CorrectionFactor(nil, day(2025, 1, 1), day(2025, 2, 1), config.LookupNearestPrior)
	require.ErrorIs(t, err, ErrInsufficientIndexData)
}

func seedIndexWithValues(t *testing.T, db *gorm.DB, points map[time.Time]float64) *models.MonetaryIndex {
	t.Helper()

	index := &models.MonetaryIndex{Name: "IPCA", Description: "Indice de precos ao consumidor amplo"}
	require.NoError(t, db.Create(index).Error)

	for date, value := range points {
		require.NoError(t, db.Create(&models.IndexValue{
			IndexID:       index.ID,
			ReferenceDate: date,
			Value:         value,
		}).Error)
	}
	return index
}

func TestApplyCorrection(t *testing.T) {
	db := setupTestDB(t)
	bk := seedBasket(t, db, basket.CalculationMean)
	item := seedBasketItem(t, db, bk.ID, 1, 2)
	seedAnsweredQuote(t, db, bk.ID, 1, map[uint]float64{item.ID: 50})

	index := seedIndexWithValues(t, db, map[time.Time]float64{
		day(2025, 1, 1): 100,
		day(2025, 6, 1): 110,
	})

	result, err := ApplyCorrection(db, bk.ID, index.ID, day(2025, 1, 1), day(2025, 6, 1), 7)
	require.NoError(t, err)

	require.InDelta(t, 1.1, result.Correction.CorrectionFactor, 1e-9)
	require.Equal(t, uint(7), result.Correction.AppliedBy)
	require.Len(t, result.Items, 1)
	require.InDelta(t, 55.0, *result.Items[0].CorrectedUnitPrice, 1e-9)
	require.InDelta(t, 110.0, *result.Items[0].CorrectedTotal, 1e-9)

	// The aggregated price at the reference date must stay untouched
	require.InDelta(t, 50.0, *result.Items[0].AggregatedUnitPrice, 1e-9)

	// The correction is persisted as an audit record
	var count int64
	db.Model(&models.PriceCorrection{}).Where("basket_id = ?", bk.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestApplyCorrectionKeepsUnresolvedItemsUnpriced(t *testing.T) {
	db := setupTestDB(t)
	bk := seedBasket(t, db, basket.CalculationMean)
	seedBasketItem(t, db, bk.ID, 1, 1)

	index := seedIndexWithValues(t, db, map[time.Time]float64{
		day(2025, 1, 1): 100,
		day(2025, 6, 1): 110,
	})

	result, err := ApplyCorrection(db, bk.ID, index.ID, day(2025, 1, 1), day(2025, 6, 1), 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.True(t, result.Items[0].Unresolved)
	require.Nil(t, result.Items[0].CorrectedUnitPrice)
}

func TestApplyCorrectionIndexNotFound(t *testing.T) {
	db := setupTestDB(t)
	bk := seedBasket(t, db, basket.CalculationMean)

	_, err := ApplyCorrection(db, bk.ID, 9999, day(2025, 1, 1), day(2025, 2, 1), 1)
	require.ErrorIs(t, err, ErrIndexNotFound)
}

func TestApplyCorrectionInsufficientData(t *testing.T) {
	db := setupTestDB(t)
	bk := seedBasket(t, db, basket.CalculationMean)
	index := seedIndexWithValues(t, db, map[time.Time]float64{
		day(2025, 1, 1): 100,
	})

	_, err := ApplyCorrection(db, bk.ID, index.ID, day(2025, 1, 1), day(2025, 6, 1), 1)
	require.ErrorIs(t, err, ErrInsufficientIndexData)

	// A failed correction writes no audit record
	var count int64
	db.Model(&models.PriceCorrection{}).Count(&count)
	require.EqualValues(t, 0, count)
}
