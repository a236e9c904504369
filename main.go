package main

import (
	"fmt"
	"log"
	"os"

	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/routes"
	"salonpos-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Customer{},
		&models.CustomerPackage{},
		&models.Service{},
		&models.Product{},
		&models.Staffer{},
		&models.Promotion{},
		&models.Voucher{},
		&models.PendingOrder{},
		&models.PendingOrderItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoicePayment{},
		&models.InvoiceDiscount{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sessions := services.NewSessionStore(config.DB)
	sessions.StartSweeper()

	receipts := services.NewReceiptService()

	r := routes.SetupRouter(sessions, receipts)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
