package authController

import (
	"log"
	"strings"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/middleware"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *fiber.Ctx) error {
	reqData := new(struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		Role             string `json:"role"`
		ManagementUnitID uint   `json:"managementUnitId"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if reqData.Name == "" {
		errors["name"] = "Name is required!"
	}
	if reqData.Email == "" || !strings.Contains(reqData.Email, "@") {
		errors["email"] = "A valid email is required!"
	}
	if len(reqData.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters!"
	}
	if reqData.Role != models.RoleAdmin && reqData.Role != models.RoleServidor {
		errors["role"] = "Role must be ADMIN or SERVIDOR!"
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", strings.ToLower(reqData.Email)).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	if reqData.ManagementUnitID != 0 {
		if err := db.First(&models.ManagementUnit{}, reqData.ManagementUnitID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Management unit not found!", nil)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:             reqData.Name,
		Email:            strings.ToLower(reqData.Email),
		Password:         string(hashedPassword),
		Role:             reqData.Role,
		ManagementUnitID: reqData.ManagementUnitID,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("email = ? AND is_deleted = ?", strings.ToLower(reqData.Email), false).First(&user)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Account is deactivated!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.ManagementUnitID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	database.Database.Db.Model(&user).Update("last_login", now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}
