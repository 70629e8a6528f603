package main

import (
	"log"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/database"
	authRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/authRoutes"
	basketRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/basketRoutes"
	indexRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/indexRoutes"
	productRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/productRoutes"
	quotationRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/quotationRoutes"
	supplierRoutes "github.com/CDdesenvolvimentoweb/cestas-publicas-web/routers/supplierRoutes"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	basketRoutes.SetupBasketRoutes(app)
	quotationRoutes.SetupQuotationRoutes(app)
	quotationRoutes.SetupPortalRoutes(app)
	supplierRoutes.SetupSupplierRoutes(app)
	indexRoutes.SetupIndexRoutes(app)
	productRoutes.SetupProductRoutes(app)

	// Background sweeps for quotation deadlines and index synchronization
	utils.InitializeQuotationScheduler()
	utils.InitializeIndexSyncScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
