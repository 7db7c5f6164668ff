package handlers

import (
	"log"
	"net/http"

	"medremind/internal/scheduler"
	"medremind/internal/services"
	"medremind/internal/store"

	"github.com/gin-gonic/gin"
)

var (
	reminderStore *store.Store
	dispatcher    *services.NotificationDispatcher
	sweeper       *scheduler.LifecycleSweeper
	pollers       *scheduler.PollerManager
	alerts        *services.AlertCenter
	reminderSvc   *services.ReminderService
	emailSender   services.EmailSender
)

// Init wires the handler package's collaborators. Called once from main
// before routes are registered.
func Init(s *store.Store, d *services.NotificationDispatcher, sw *scheduler.LifecycleSweeper, pm *scheduler.PollerManager, ac *services.AlertCenter, rs *services.ReminderService, es services.EmailSender) {
	reminderStore = s
	dispatcher = d
	sweeper = sw
	pollers = pm
	alerts = ac
	reminderSvc = rs
	emailSender = es
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Medication reminder service")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
