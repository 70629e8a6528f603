package supplierValidator

import (
	"strings"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateSupplierRequest is the validated supplier payload
type CreateSupplierRequest struct {
	CompanyName           string `json:"companyName"`
	TradeName             string `json:"tradeName"`
	CNPJ                  string `json:"cnpj"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	StateRegistration     string `json:"stateRegistration"`
	MunicipalRegistration string `json:"municipalRegistration"`
	Website               string `json:"website"`
}

// CreateSupplier validates supplier creation request
func CreateSupplier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateSupplierRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CompanyName == "" {
			errors["companyName"] = "Company name is required!"
		}
		if reqData.CNPJ == "" {
			errors["cnpj"] = "CNPJ is required!"
		}
		if reqData.Email == "" || !strings.Contains(reqData.Email, "@") {
			errors["email"] = "A valid contact email is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		c.Locals("validatedCreateSupplier", reqData)
		return c.Next()
	}
}
