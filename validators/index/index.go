package indexValidator

import (
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"

	"github.com/gofiber/fiber/v2"
)

// AddIndexValueRequest is the validated index value payload
type AddIndexValueRequest struct {
	IndexID       uint
	ReferenceDate time.Time
	Value         float64
}

// ApplyCorrectionRequest is the validated price correction payload
type ApplyCorrectionRequest struct {
	BasketID   uint
	IndexID    uint
	BaseDate   time.Time
	TargetDate time.Time
}

// CreateIndex validates monetary index creation
func CreateIndex() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			SourceURL   string `json:"sourceUrl"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"name": "Index name is required!"})
		}

		c.Locals("validatedCreateIndex", reqData)
		return c.Next()
	}
}

// AddIndexValue validates appending one point to an index series
func AddIndexValue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IndexID       uint    `json:"indexId"`
			ReferenceDate string  `json:"referenceDate"`
			Value         float64 `json:"value"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.IndexID == 0 {
			errors["indexId"] = "Index ID is required!"
		}
		if reqData.Value <= 0 {
			errors["value"] = "Index value must be greater than 0!"
		}

		referenceDate, err := time.Parse("2006-01-02", reqData.ReferenceDate)
		if err != nil {
			errors["referenceDate"] = "Reference date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddIndexValue", &AddIndexValueRequest{
			IndexID:       reqData.IndexID,
			ReferenceDate: referenceDate,
			Value:         reqData.Value,
		})
		return c.Next()
	}
}

// ApplyCorrection validates a price correction request
func ApplyCorrection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BasketID   uint   `json:"basketId"`
			IndexID    uint   `json:"indexId"`
			BaseDate   string `json:"baseDate"`
			TargetDate string `json:"targetDate"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BasketID == 0 {
			errors["basketId"] = "Basket ID is required!"
		}
		if reqData.IndexID == 0 {
			errors["indexId"] = "Index ID is required!"
		}

		baseDate, err := time.Parse("2006-01-02", reqData.BaseDate)
		if err != nil {
			errors["baseDate"] = "Base date must be in YYYY-MM-DD format!"
		}
		targetDate, err := time.Parse("2006-01-02", reqData.TargetDate)
		if err != nil {
			errors["targetDate"] = "Target date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedApplyCorrection", &ApplyCorrectionRequest{
			BasketID:   reqData.BasketID,
			IndexID:    reqData.IndexID,
			BaseDate:   baseDate,
			TargetDate: targetDate,
		})
		return c.Next()
	}
}
