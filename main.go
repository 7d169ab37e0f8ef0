package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/controllers"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/middleware"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
	"golang.org/x/time/rate"
)

func main() {
	log.Println("Starting Rosario's Tailoring API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.Appointment{},
		&models.Order{},
		&models.Feedback{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Image storage is optional in development; booking still works, just
	// without uploads.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, image uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with middleware and all API routes.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	bookingLimiter := middleware.NewIPRateLimiter(rate.Limit(float64(cfg.BookingRatePerMin)/60.0), cfg.BookingRatePerMin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/service-types", controllers.ListServiceTypes)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetCurrentUser)
			authed.PATCH("/users/me", controllers.UpdateCurrentUser)

			authed.POST("/appointments", bookingLimiter.Middleware(), controllers.BookAppointment)
			authed.GET("/appointments", controllers.ListAppointments)
			authed.GET("/appointments/available-slots", controllers.GetAvailableSlots)
			authed.POST("/appointments/:id/accept", controllers.AcceptAppointment)
			authed.POST("/appointments/:id/reject", controllers.RejectAppointment)
			authed.POST("/appointments/:id/cancel", controllers.CancelAppointment)
			authed.POST("/appointments/:id/refund", controllers.AttachAppointmentRefund)
			authed.GET("/appointments/refunds/pending", controllers.ListPendingRefunds)
			authed.DELETE("/appointments/:id", controllers.DestroyAppointment)

			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			authed.POST("/orders/:id/handled", controllers.MarkOrderHandled)
			authed.POST("/orders/:id/refund", controllers.AttachOrderRefund)
			authed.POST("/orders/:id/feedback", controllers.SendFeedback)
			authed.GET("/orders/:id/feedback", controllers.ListFeedback)

			authed.GET("/queue/today", controllers.GetTodayQueue)
			authed.POST("/queue/recalculate", controllers.RecalculateQueue)

			authed.GET("/notifications", controllers.ListNotifications)
			authed.POST("/notifications/:id/read", controllers.MarkNotificationRead)

			authed.POST("/service-types", controllers.CreateServiceType)
			authed.PUT("/service-types/:id", controllers.UpdateServiceType)
			authed.DELETE("/service-types/:id", controllers.DeleteServiceType)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rosario's Tailoring API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
