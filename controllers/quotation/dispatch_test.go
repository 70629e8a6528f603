package quotationController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"
	quotationValidator "github.com/CDdesenvolvimentoweb/cestas-publicas-web/validators/quotation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sentMail struct {
	ToEmail    string
	TemplateID string
	Variables  map[string]string
}

type fakeNotifier struct {
	Sent     []sentMail
	FailFor  map[string]bool // by recipient email
	FailNext bool
}

func (f *fakeNotifier) Send(toEmail, toName, templateID string, variables map[string]string) error {
	if f.FailNext || f.FailFor[toEmail] {
		f.FailNext = false
		return utils.ErrNotifierUnavailable
	}
	f.Sent = append(f.Sent, sentMail{ToEmail: toEmail, TemplateID: templateID, Variables: variables})
	return nil
}

// setupTestApp wires an in-memory database and a fiber app with the quotation
// routes registered without the JWT guard
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *fakeNotifier) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)

	previousDb := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = previousDb })

	config.AppConfig = &config.Config{
		PortalBaseURL:       "http://localhost:5173/quotation",
		ReminderWindowHours: 48,
		CorrectionLookup:    config.LookupNearestPrior,
	}

	fake := &fakeNotifier{FailFor: map[string]bool{}}
	previousMailer := utils.Mailer
	utils.Mailer = fake
	t.Cleanup(func() { utils.Mailer = previousMailer })

	app := fiber.New()
	app.Post("/quotation/dispatch", quotationValidator.Dispatch(), DispatchQuotations)
	app.Get("/quotation/summary/:basketId", GetBasketQuotationSummary)
	app.Get("/portal/quotation/:token", GetQuotationByToken)
	app.Post("/portal/quotation/:token/submit", quotationValidator.Submit(), SubmitQuotation)

	return app, db, fake
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func seedDispatchFixture(t *testing.T, db *gorm.DB, supplierCount int) (*basket.Basket, []models.Supplier) {
	t.Helper()

	bk := &basket.Basket{
		Name:             "Cesta de generos alimenticios",
		ReferenceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CalculationType:  basket.CalculationMean,
		ManagementUnitID: 1,
		CreatedBy:        1,
	}
	require.NoError(t, db.Create(bk).Error)
	require.NoError(t, db.Create(&basket.BasketItem{BasketID: bk.ID, ProductID: 1, Quantity: 10}).Error)

	suppliers := make([]models.Supplier, 0, supplierCount)
	for i := 0; i < supplierCount; i++ {
		supplier := models.Supplier{
			CompanyName: fmt.Sprintf("Fornecedor %d LTDA", i+1),
			CNPJ:        fmt.Sprintf("00.000.000/000%d-00", i+1),
			Email:       fmt.Sprintf("fornecedor%d@example.com.br", i+1),
		}
		require.NoError(t, db.Create(&supplier).Error)
		suppliers = append(suppliers, supplier)
	}
	return bk, suppliers
}

func dispatchPayload(bk *basket.Basket, suppliers []models.Supplier, dueDate time.Time) fiber.Map {
	ids := make([]uint, 0, len(suppliers))
	for _, s := range suppliers {
		ids = append(ids, s.ID)
	}
	return fiber.Map{
		"basketId":    bk.ID,
		"supplierIds": ids,
		"dueDate":     dueDate.Format(time.RFC3339),
	}
}

func TestDispatchQuotations(t *testing.T) {
	app, db, fake := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 3)

	resp, body := doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, suppliers, time.Now().Add(96*time.Hour)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.EqualValues(t, 3, data["sentCount"])
	require.Len(t, fake.Sent, 3)
	require.Equal(t, utils.TemplateQuotationInvite, fake.Sent[0].TemplateID)

	// One pending quotation per supplier, each with an active token and sent_at
	var quotations []basket.Quotation
	require.NoError(t, db.Where("basket_id = ?", bk.ID).Find(&quotations).Error)
	require.Len(t, quotations, 3)
	for _, quotation := range quotations {
		require.Equal(t, basket.StatusPending, quotation.Status)
		require.NotNil(t, quotation.SentAt)
		require.Equal(t, data["batchId"], quotation.BatchID)

		var tokenCount int64
		db.Model(&basket.AccessToken{}).
			Where("quotation_id = ? AND revoked_at IS NULL", quotation.ID).Count(&tokenCount)
		require.EqualValues(t, 1, tokenCount)
	}
}

func TestDispatchSkipsActivePairs(t *testing.T) {
	app, db, fake := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 2)

	dueDate := time.Now().Add(96 * time.Hour)
	_, _ = doJSON(t, app, "POST", "/quotation/dispatch", dispatchPayload(bk, suppliers, dueDate))
	require.Len(t, fake.Sent, 2)

	// Same pairs again: both are still pending inside their due date
	resp, body := doJSON(t, app, "POST", "/quotation/dispatch", dispatchPayload(bk, suppliers, dueDate))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.EqualValues(t, 0, data["sentCount"])
	require.Len(t, fake.Sent, 2)

	for _, result := range data["results"].([]interface{}) {
		require.Equal(t, OutcomeSkippedDuplicate, result.(map[string]interface{})["outcome"])
	}

	var count int64
	db.Model(&basket.Quotation{}).Where("basket_id = ?", bk.ID).Count(&count)
	require.EqualValues(t, 2, count)
}

func TestDispatchAgainAfterExpiry(t *testing.T) {
	app, db, _ := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 1)

	// An expired quotation does not block a new cycle for the pair
	expired := basket.Quotation{
		BasketID:   bk.ID,
		SupplierID: suppliers[0].ID,
		Status:     basket.StatusExpired,
		DueDate:    time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)

	resp, body := doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, suppliers, time.Now().Add(96*time.Hour)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, body["data"].(map[string]interface{})["sentCount"])

	var count int64
	db.Model(&basket.Quotation{}).Where("basket_id = ?", bk.ID).Count(&count)
	require.EqualValues(t, 2, count)
}

func TestDispatchPartialNotifierFailure(t *testing.T) {
	app, db, fake := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 3)
	fake.FailFor[suppliers[1].Email] = true

	resp, body := doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, suppliers, time.Now().Add(96*time.Hour)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.EqualValues(t, 2, data["sentCount"])

	outcomes := map[string]string{}
	for _, result := range data["results"].([]interface{}) {
		r := result.(map[string]interface{})
		outcomes[r["email"].(string)] = r["outcome"].(string)
	}
	require.Equal(t, OutcomeSent, outcomes[suppliers[0].Email])
	require.Equal(t, OutcomeNotifierFailed, outcomes[suppliers[1].Email])
	require.Equal(t, OutcomeSent, outcomes[suppliers[2].Email])

	// The failed pair keeps its pending quotation without sent_at
	var failed basket.Quotation
	require.NoError(t, db.Where("basket_id = ? AND supplier_id = ?", bk.ID, suppliers[1].ID).First(&failed).Error)
	require.Equal(t, basket.StatusPending, failed.Status)
	require.Nil(t, failed.SentAt)

	// A later dispatch retries the never-notified pair instead of skipping it
	delete(fake.FailFor, suppliers[1].Email)
	resp, body = doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, []models.Supplier{suppliers[1]}, time.Now().Add(96*time.Hour)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, body["data"].(map[string]interface{})["sentCount"])

	var count int64
	db.Model(&basket.Quotation{}).Where("basket_id = ? AND supplier_id = ?", bk.ID, suppliers[1].ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestDispatchUnknownSupplier(t *testing.T) {
	app, db, fake := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 1)

	payload := dispatchPayload(bk, suppliers, time.Now().Add(96*time.Hour))
	payload["supplierIds"] = []uint{suppliers[0].ID, 9999}

	resp, body := doJSON(t, app, "POST", "/quotation/dispatch", payload)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	missing := body["data"].(map[string]interface{})["missingSupplierIds"].([]interface{})
	require.Len(t, missing, 1)
	require.EqualValues(t, 9999, missing[0])

	// All or nothing: no quotation is created and no mail goes out
	require.Empty(t, fake.Sent)
	var count int64
	db.Model(&basket.Quotation{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestDispatchFinalizedBasket(t *testing.T) {
	app, db, _ := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 1)
	require.NoError(t, db.Model(bk).Update("is_finalized", true).Error)

	resp, _ := doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, suppliers, time.Now().Add(96*time.Hour)))
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDispatchPastDueDateRejected(t *testing.T) {
	app, db, _ := setupTestApp(t)
	bk, suppliers := seedDispatchFixture(t, db, 1)

	resp, _ := doJSON(t, app, "POST", "/quotation/dispatch",
		dispatchPayload(bk, suppliers, time.Now().Add(-time.Hour)))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
