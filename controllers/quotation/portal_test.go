package quotationController

import (
	"fmt"
	"testing"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type portalFixture struct {
	Basket    *basket.Basket
	Items     []basket.BasketItem
	Quotation *basket.Quotation
	Token     string
}

func seedPortalFixture(t *testing.T, db *gorm.DB, dueDate time.Time) portalFixture {
	t.Helper()

	bk := &basket.Basket{
		Name:             "Cesta de material de limpeza",
		ReferenceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CalculationType:  basket.CalculationMean,
		ManagementUnitID: 1,
		CreatedBy:        1,
	}
	require.NoError(t, db.Create(bk).Error)

	items := make([]basket.BasketItem, 0, 2)
	for i := 0; i < 2; i++ {
		item := basket.BasketItem{BasketID: bk.ID, ProductID: uint(i + 1), Quantity: float64(i+1) * 10}
		require.NoError(t, db.Create(&item).Error)
		items = append(items, item)
	}

	quotation := &basket.Quotation{
		BasketID:   bk.ID,
		SupplierID: 1,
		Status:     basket.StatusPending,
		DueDate:    dueDate,
	}
	require.NoError(t, db.Create(quotation).Error)

	token, err := utils.IssueAccessToken(db, quotation.ID)
	require.NoError(t, err)

	return portalFixture{Basket: bk, Items: items, Quotation: quotation, Token: token}
}

func submitPath(token string) string {
	return fmt.Sprintf("/portal/quotation/%s/submit", token)
}

func TestGetQuotationByToken(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, body := doJSON(t, app, "GET", "/portal/quotation/"+fx.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.Equal(t, basket.StatusPending, data["quotation"].(map[string]interface{})["status"])
	require.Len(t, data["basket"].(map[string]interface{})["items"].([]interface{}), 2)

	// Reading does not consume the token
	resp, _ = doJSON(t, app, "GET", "/portal/quotation/"+fx.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetQuotationInvalidToken(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/portal/quotation/deadbeef", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitQuotation(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 12.5, "brand": "Ype"},
			{"basketItemId": fx.Items[1].ID, "unitPrice": 4.3},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quotation basket.Quotation
	require.NoError(t, db.First(&quotation, fx.Quotation.ID).Error)
	require.Equal(t, basket.StatusAnswered, quotation.Status)
	require.NotNil(t, quotation.RespondedAt)

	var quoteItems []basket.QuoteItem
	require.NoError(t, db.Where("quotation_id = ?", quotation.ID).Order("basket_item_id ASC").Find(&quoteItems).Error)
	require.Len(t, quoteItems, 2)
	require.InDelta(t, 12.5, quoteItems[0].UnitPrice, 1e-9)
	require.InDelta(t, 125.0, quoteItems[0].TotalPrice, 1e-9) // 12.5 x quantity 10

	// First use is stamped on the token
	var access basket.AccessToken
	require.NoError(t, db.Where("token = ?", fx.Token).First(&access).Error)
	require.NotNil(t, access.UsedAt)
}

func TestResubmissionReplacesItems(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
			{"basketItemId": fx.Items[1].ID, "unitPrice": 20.0},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Resubmission before the due date replaces the whole answer
	resp, _ = doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 8.0},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quoteItems []basket.QuoteItem
	require.NoError(t, db.Where("quotation_id = ?", fx.Quotation.ID).Find(&quoteItems).Error)
	require.Len(t, quoteItems, 1)
	require.InDelta(t, 8.0, quoteItems[0].UnitPrice, 1e-9)

	var quotation basket.Quotation
	require.NoError(t, db.First(&quotation, fx.Quotation.ID).Error)
	require.Equal(t, basket.StatusAnswered, quotation.Status)
}

func TestSubmitUnknownBasketItem(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, body := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": 9999, "unitPrice": 10.0},
		},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body["data"].(map[string]interface{}), "basketItemId:9999")

	// Nothing is saved and the quotation stays pending
	var count int64
	db.Model(&basket.QuoteItem{}).Where("quotation_id = ?", fx.Quotation.ID).Count(&count)
	require.EqualValues(t, 0, count)

	var quotation basket.Quotation
	require.NoError(t, db.First(&quotation, fx.Quotation.ID).Error)
	require.Equal(t, basket.StatusPending, quotation.Status)
}

func TestSubmitDuplicateBasketItem(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
			{"basketItemId": fx.Items[0].ID, "unitPrice": 11.0},
		},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitNegativePrice(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": -1.0},
		},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitZeroPriceAccepted(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 0.0},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSubmitAfterDueDate(t *testing.T) {
	app, db, _ := setupTestApp(t)

	// Due date in the past: the token itself has expired, even though the
	// monitor has not swept the quotation yet
	fx := seedPortalFixture(t, db, time.Now().Add(-time.Hour))

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
		},
	})
	require.Equal(t, fiber.StatusGone, resp.StatusCode)

	var quotation basket.Quotation
	require.NoError(t, db.First(&quotation, fx.Quotation.ID).Error)
	require.NotEqual(t, basket.StatusAnswered, quotation.Status)
}

func TestSubmitExpiredQuotation(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	require.NoError(t, db.Model(&basket.Quotation{}).Where("id = ?", fx.Quotation.ID).
		Update("status", basket.StatusExpired).Error)

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
		},
	})
	require.Equal(t, fiber.StatusGone, resp.StatusCode)
}

func TestSubmitFinalizedBasket(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	require.NoError(t, db.Model(fx.Basket).Update("is_finalized", true).Error)

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
		},
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSubmitRevokedToken(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	// Re-issuing revokes the token the supplier holds
	_, err := utils.IssueAccessToken(db, fx.Quotation.ID)
	require.NoError(t, err)

	resp, _ := doJSON(t, app, "POST", submitPath(fx.Token), fiber.Map{
		"items": []fiber.Map{
			{"basketItemId": fx.Items[0].ID, "unitPrice": 10.0},
		},
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestQuotationSummary(t *testing.T) {
	app, db, _ := setupTestApp(t)
	fx := seedPortalFixture(t, db, time.Now().Add(96*time.Hour))

	// One answered, one expired, plus the pending fixture quotation
	now := time.Now()
	require.NoError(t, db.Create(&basket.Quotation{
		BasketID: fx.Basket.ID, SupplierID: 2, Status: basket.StatusAnswered,
		DueDate: now.Add(96 * time.Hour), RespondedAt: &now,
	}).Error)
	require.NoError(t, db.Create(&basket.Quotation{
		BasketID: fx.Basket.ID, SupplierID: 3, Status: basket.StatusExpired,
		DueDate: now.Add(-time.Hour),
	}).Error)

	resp, body := doJSON(t, app, "GET", fmt.Sprintf("/quotation/summary/%d", fx.Basket.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.EqualValues(t, 3, data["total"])
	require.EqualValues(t, 1, data["pending"])
	require.EqualValues(t, 1, data["answered"])
	require.EqualValues(t, 1, data["expired"])
}
