package quotationValidator

import (
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"

	"github.com/gofiber/fiber/v2"
)

// DispatchRequest is the validated dispatch payload
type DispatchRequest struct {
	BasketID    uint
	SupplierIDs []uint
	DueDate     time.Time
}

// SubmitItem is one validated price line of a supplier submission
type SubmitItem struct {
	BasketItemID uint    `json:"basketItemId"`
	UnitPrice    float64 `json:"unitPrice"`
	Brand        string  `json:"brand"`
	Observations string  `json:"observations"`
}

// SubmitRequest is the validated supplier submission payload
type SubmitRequest struct {
	Items []SubmitItem
}

// Dispatch validates the quotation dispatch request
func Dispatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BasketID    uint   `json:"basketId"`
			SupplierIDs []uint `json:"supplierIds"`
			DueDate     string `json:"dueDate"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BasketID == 0 {
			errors["basketId"] = "Basket ID is required!"
		}
		if len(reqData.SupplierIDs) == 0 {
			errors["supplierIds"] = "At least one supplier is required!"
		}
		seen := make(map[uint]bool, len(reqData.SupplierIDs))
		for _, id := range reqData.SupplierIDs {
			if id == 0 {
				errors["supplierIds"] = "Supplier IDs must be greater than 0!"
				break
			}
			if seen[id] {
				errors["supplierIds"] = "Supplier IDs must be unique!"
				break
			}
			seen[id] = true
		}

		dueDate, err := time.Parse(time.RFC3339, reqData.DueDate)
		if err != nil {
			errors["dueDate"] = "Due date must be a valid RFC3339 timestamp!"
		} else if !dueDate.After(time.Now()) {
			errors["dueDate"] = "Due date must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDispatch", &DispatchRequest{
			BasketID:    reqData.BasketID,
			SupplierIDs: reqData.SupplierIDs,
			DueDate:     dueDate,
		})
		return c.Next()
	}
}

// Submit validates the shape of a supplier submission. Membership of each
// basket item and price bounds are checked by the collector against the
// quotation's basket.
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Items []SubmitItem `json:"items"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Items) == 0 {
			errors["items"] = "At least one item is required!"
		}
		for _, item := range reqData.Items {
			if item.BasketItemID == 0 {
				errors["items"] = "Every item must reference a basket item!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmit", &SubmitRequest{Items: reqData.Items})
		return c.Next()
	}
}
