package main

import (
	"fmt"
	"log"
	"os"

	"medremind/internal/auth"
	"medremind/internal/database"
	"medremind/internal/handlers"
	"medremind/internal/scheduler"
	"medremind/internal/services"
	"medremind/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env in development; in production the environment is set by the host
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Wire the reminder core
	reminderStore := store.NewStore(database.GetDB())
	emailService := services.NewEmailService()
	alertCenter := services.NewAlertCenter()
	dispatcher := services.NewNotificationDispatcher(emailService, alertCenter, nil, reminderStore)
	sweeper := scheduler.NewLifecycleSweeper(reminderStore)
	pollerManager := scheduler.NewPollerManager(reminderStore, dispatcher)
	defer pollerManager.StopAll()
	reminderService := services.NewReminderService(database.GetDB())

	handlers.Init(reminderStore, dispatcher, sweeper, pollerManager, alertCenter, reminderService, emailService)

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{getFrontendOrigin()}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Cron-Secret")
	router.Use(cors.New(corsConfig))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Sweep endpoint: authenticates itself (cron secret or session token
	// depending on the invocation path), so no middleware here
	router.POST("/api/reminders/check", handlers.CheckReminders)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/api/reminders", handlers.CreateReminder)
		protected.GET("/api/reminders", handlers.GetReminders)
		protected.PATCH("/api/reminders/:id", handlers.UpdateReminder)
		protected.DELETE("/api/reminders/:id", handlers.DeleteReminder)

		protected.GET("/api/reminders/alerts", handlers.GetAlerts)
		protected.POST("/api/reminders/poll/start", handlers.StartPolling)
		protected.POST("/api/reminders/poll/stop", handlers.StopPolling)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func getFrontendOrigin() string {
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}
