package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/controllers"
	"github.com/kdteam/kd-restaurant/middlewares"
	"github.com/kdteam/kd-restaurant/services"
)

func SetupRouter(db *gorm.DB, bookingSvc *services.BookingService, membershipSvc *services.MembershipService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(corsMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	customerCtrl := controllers.NewCustomerController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	branchCtrl := controllers.NewBranchController(db)
	bookingCtrl := controllers.NewBookingController(db, bookingSvc)
	membershipCtrl := controllers.NewMembershipController(db, membershipSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/login", userCtrl.Login)
	}

	// Guest-facing reads plus the reservation form.
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenu)
	r.GET("/branches", branchCtrl.GetAllBranches)
	r.GET("/booking-slots", bookingCtrl.GetTimeSlots)
	r.POST("/bookings", bookingCtrl.CreateBooking)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.POST("/logout", userCtrl.Logout)
		admin.GET("/profile", userCtrl.GetProfile)

		// Booking lifecycle
		admin.GET("/bookings", bookingCtrl.ListBookings)
		admin.GET("/bookings/history", bookingCtrl.GetBookingHistory)
		admin.GET("/bookings/available-tables", bookingCtrl.GetAvailableTables)
		admin.GET("/bookings/:booking_id", bookingCtrl.GetBookingDetails)
		admin.GET("/bookings/:booking_id/order", bookingCtrl.GetCurrentOrder)
		admin.GET("/bookings/:booking_id/invoice", bookingCtrl.GetInvoice)
		admin.POST("/bookings", bookingCtrl.CreateBooking)
		admin.POST("/bookings/walk-in", bookingCtrl.CreateWalkIn)
		admin.POST("/bookings/assign-table", bookingCtrl.AssignTable)
		admin.POST("/bookings/check-in", bookingCtrl.CheckIn)
		admin.POST("/bookings/order-items", bookingCtrl.AddOrderItem)
		admin.PATCH("/bookings/order-items", bookingCtrl.UpdateOrderItem)
		admin.POST("/bookings/payment", bookingCtrl.CompletePayment)
		admin.POST("/bookings/cancel", bookingCtrl.CancelBooking)

		// Tables
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.GET("/tables/statuses", tableCtrl.GetTableStatuses)
		admin.GET("/tables/types", tableCtrl.GetTableTypes)
		admin.GET("/tables/:table_id", tableCtrl.GetTable)
		admin.POST("/tables", middlewares.RequireRoles("manager"), tableCtrl.CreateTable)
		admin.PATCH("/tables/:table_id", middlewares.RequireRoles("manager"), tableCtrl.UpdateTable)

		// Customers and loyalty
		admin.GET("/customers", customerCtrl.GetAllCustomers)
		admin.GET("/customers/:customer_id", customerCtrl.GetCustomer)
		admin.PATCH("/customers/:customer_id", customerCtrl.UpdateCustomer)
		admin.GET("/memberships/:customer_id", membershipCtrl.GetCard)
		admin.POST("/memberships", membershipCtrl.Enroll)

		// Menu management
		admin.POST("/categories", middlewares.RequireRoles("manager"), categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", middlewares.RequireRoles("manager"), categoryCtrl.UpdateCategory)
		admin.POST("/menus", middlewares.RequireRoles("manager"), menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", middlewares.RequireRoles("manager"), menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", middlewares.RequireRoles("manager"), menuCtrl.DeleteMenu)

		// Branches
		admin.GET("/areas", branchCtrl.GetAreas)
		admin.POST("/branches", middlewares.RequireRoles(), branchCtrl.CreateBranch)
		admin.POST("/areas", middlewares.RequireRoles(), branchCtrl.CreateArea)

		// Staff accounts, admin only
		admin.POST("/register", middlewares.RequireRoles(), userCtrl.Register)
		admin.GET("/users", middlewares.RequireRoles(), userCtrl.GetAllUsers)
		admin.PATCH("/users/:user_id", middlewares.RequireRoles(), userCtrl.UpdateUser)
		admin.DELETE("/users/:user_id", middlewares.RequireRoles(), userCtrl.DeactivateUser)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}

	return cors.New(cfg)
}
