package basketValidator

import (
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"github.com/gofiber/fiber/v2"
)

// CreateBasketRequest is the validated basket creation payload
type CreateBasketRequest struct {
	Name             string
	Description      string
	ReferenceDate    time.Time
	CalculationType  string
	ManagementUnitID uint
}

// AddBasketItemRequest is the validated basket item payload
type AddBasketItemRequest struct {
	BasketID     uint
	ProductID    uint
	Quantity     float64
	LotNumber    *int
	Observations string
}

// CreateBasket validates basket creation request
func CreateBasket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name             string `json:"name"`
			Description      string `json:"description"`
			ReferenceDate    string `json:"referenceDate"`
			CalculationType  string `json:"calculationType"`
			ManagementUnitID uint   `json:"managementUnitId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name == "" {
			errors["name"] = "Basket name is required!"
		}
		if reqData.ManagementUnitID == 0 {
			errors["managementUnitId"] = "Management unit is required!"
		}

		validTypes := map[string]bool{
			basket.CalculationMean:   true,
			basket.CalculationMedian: true,
			basket.CalculationMin:    true,
		}
		if _, ok := validTypes[reqData.CalculationType]; !ok {
			errors["calculationType"] = "Calculation type must be MEAN, MEDIAN, or MIN!"
		}

		referenceDate, err := time.Parse("2006-01-02", reqData.ReferenceDate)
		if err != nil {
			errors["referenceDate"] = "Reference date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateBasket", &CreateBasketRequest{
			Name:             reqData.Name,
			Description:      reqData.Description,
			ReferenceDate:    referenceDate,
			CalculationType:  reqData.CalculationType,
			ManagementUnitID: reqData.ManagementUnitID,
		})
		return c.Next()
	}
}

// AddBasketItem validates adding a product line to a basket
func AddBasketItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BasketID     uint    `json:"basketId"`
			ProductID    uint    `json:"productId"`
			Quantity     float64 `json:"quantity"`
			LotNumber    *int    `json:"lotNumber"`
			Observations string  `json:"observations"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BasketID == 0 {
			errors["basketId"] = "Basket ID is required!"
		}
		if reqData.ProductID == 0 {
			errors["productId"] = "Product ID is required!"
		}
		if reqData.Quantity <= 0 {
			errors["quantity"] = "Quantity must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddBasketItem", &AddBasketItemRequest{
			BasketID:     reqData.BasketID,
			ProductID:    reqData.ProductID,
			Quantity:     reqData.Quantity,
			LotNumber:    reqData.LotNumber,
			Observations: reqData.Observations,
		})
		return c.Next()
	}
}

// RemoveBasketItem validates removing a product line from a basket
func RemoveBasketItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BasketID uint `json:"basketId"`
			ItemID   uint `json:"itemId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BasketID == 0 {
			errors["basketId"] = "Basket ID is required!"
		}
		if reqData.ItemID == 0 {
			errors["itemId"] = "Item ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRemoveBasketItem", reqData)
		return c.Next()
	}
}
