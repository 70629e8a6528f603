package utils

import (
	"errors"
	"sort"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"gorm.io/gorm"
)

var ErrBasketNotFound = errors.New("basket not found")

// ItemAggregate is the reference price computed for one basket item
type ItemAggregate struct {
	BasketItemID        uint     `json:"basketItemId"`
	ProductID           uint     `json:"productId"`
	Quantity            float64  `json:"quantity"`
	AggregatedUnitPrice *float64 `json:"aggregatedUnitPrice"` // nil when unresolved
	AggregatedTotal     *float64 `json:"aggregatedTotalPrice"`
	SupplierCount       int      `json:"contributingSupplierCount"`
	Unresolved          bool     `json:"unresolved"`
}

// AggregateBasket computes the reference price of every item of a basket from
// the quote items of its answered quotations, using the basket's calculation
// type. It reads only, so it can be recomputed at any time while answers
// keep arriving.
func AggregateBasket(db *gorm.DB, basketID uint) ([]ItemAggregate, error) {
	var bk basket.Basket
	if err := db.Where("id = ? AND is_deleted = false", basketID).First(&bk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, err
	}

	var items []basket.BasketItem
	if err := db.Where("basket_id = ?", bk.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	// Quote items of answered quotations only
	var quoteItems []basket.QuoteItem
	if err := db.
		Joins("JOIN supplier_quotations ON supplier_quotations.id = quote_items.quotation_id").
		Where("supplier_quotations.basket_id = ? AND supplier_quotations.status = ?", bk.ID, basket.StatusAnswered).
		Find(&quoteItems).Error; err != nil {
		return nil, err
	}

	pricesByItem := make(map[uint][]float64, len(items))
	for _, qi := range quoteItems {
		pricesByItem[qi.BasketItemID] = append(pricesByItem[qi.BasketItemID], qi.UnitPrice)
	}

	result := make([]ItemAggregate, 0, len(items))
	for _, item := range items {
		agg := ItemAggregate{
			BasketItemID: item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
		}

		prices := pricesByItem[item.ID]
		agg.SupplierCount = len(prices)
		if len(prices) == 0 {
			// Never default to zero, a silent zero would corrupt totals
			agg.Unresolved = true
			result = append(result, agg)
			continue
		}

		unit := applyCalculation(bk.CalculationType, prices)
		total := unit * item.Quantity
		agg.AggregatedUnitPrice = &unit
		agg.AggregatedTotal = &total
		result = append(result, agg)
	}

	return result, nil
}

func applyCalculation(calculationType string, prices []float64) float64 {
	switch calculationType {
	case basket.CalculationMedian:
		return median(prices)
	case basket.CalculationMin:
		min := prices[0]
		for _, p := range prices[1:] {
			if p < min {
				min = p
			}
		}
		return min
	default: // MEAN
		sum := 0.0
		for _, p := range prices {
			sum += p
		}
		return sum / float64(len(prices))
	}
}

func median(prices []float64) float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
