package routes

import (
	"os"
	"strings"

	"salonpos-backend/config"
	"salonpos-backend/controllers"
	"salonpos-backend/services"
	"salonpos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(sessions *services.SessionStore, receipts *services.ReceiptService) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	api.Use(config.RateLimiter(10, 20))
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
			customers.POST("/:id/packages", controllers.AddCustomerPackage)
			customers.POST("/:id/wallet/topup", controllers.TopUpWallet)
		}

		// Service catalog routes
		servicesGroup := api.Group("/services")
		{
			servicesGroup.POST("", controllers.CreateService)
			servicesGroup.GET("", controllers.GetServices)
			servicesGroup.GET("/:id", controllers.GetService)
			servicesGroup.PUT("/:id", controllers.UpdateService)
			servicesGroup.DELETE("/:id", controllers.DeleteService)
		}

		// Product catalog routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Promotion and voucher routes
		promotions := api.Group("/promotions")
		{
			promotions.POST("", controllers.CreatePromotion)
			promotions.GET("", controllers.GetPromotions)
			promotions.DELETE("/:id", controllers.DeletePromotion)
		}
		vouchers := api.Group("/vouchers")
		{
			vouchers.POST("", controllers.CreateVoucher)
			vouchers.GET("", controllers.GetVouchers)
			vouchers.DELETE("/:id", controllers.DeleteVoucher)
		}

		// Pending app orders
		pending := api.Group("/pending-orders")
		{
			pending.POST("", controllers.CreatePendingOrder)
			pending.GET("", controllers.GetPendingOrders)
			pending.POST("/:id/dismiss", controllers.DismissPendingOrder)
		}

		// POS billing session
		posController := controllers.POSController{Sessions: sessions, Receipts: receipts}
		pos := api.Group("/pos")
		{
			pos.GET("/bill", posController.GetBill)
			pos.POST("/client", posController.SelectClient)
			pos.POST("/items", posController.AddItem)
			pos.POST("/items/scan", posController.ScanItem)
			pos.PATCH("/items/:index/quantity", posController.UpdateQuantity)
			pos.PATCH("/items/:index/staff", posController.AssignStaff)
			pos.PATCH("/items/:index/package", posController.TogglePackageRedemption)
			pos.DELETE("/items/:index", posController.RemoveItem)
			pos.POST("/discounts/manual", posController.SetManualDiscount)
			pos.DELETE("/discounts/manual", posController.ClearManualDiscount)
			pos.POST("/discounts/promotion", posController.ApplyPromotion)
			pos.POST("/discounts/voucher", posController.ApplyVoucher)
			pos.DELETE("/discounts/voucher", posController.ClearVoucher)
			pos.POST("/redemptions/points", posController.RedeemPoints)
			pos.POST("/redemptions/wallet", posController.RedeemWallet)
			pos.POST("/payments", posController.AddPaymentMethod)
			pos.PATCH("/payments/:index", posController.UpdatePayment)
			pos.DELETE("/payments/:index", posController.RemovePayment)
			pos.POST("/pending-orders/:id/import", posController.ImportPendingOrder)
			pos.POST("/checkout", posController.Checkout)
			pos.POST("/reset", posController.ResetBill)
		}

		// Invoice routes (read-only; invoices are immutable)
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports/sales", reportController.GetSalesSummary)

		// Employee routes
		employees := api.Group("/employees")
		{
			employees.GET("", controllers.GetEmployees)          // GET /api/employees
			employees.POST("", controllers.AddEmployee)          // POST /api/employees
			employees.PUT("/:id", controllers.UpdateEmployee)    // PUT /api/employees/:id
			employees.DELETE("/:id", controllers.DeleteEmployee) // DELETE /api/employees/:id
		}
	}

	return r
}
