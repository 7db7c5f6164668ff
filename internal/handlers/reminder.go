package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"medremind/internal/database"
	"medremind/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// validateTriggerTimes checks a reminder's time list: zero-padded 24-hour
// "HH:MM" strings, no duplicate slots
func validateTriggerTimes(times []string) error {
	seen := make(map[string]bool, len(times))
	for _, t := range times {
		if len(t) != 5 {
			return fmt.Errorf("invalid time %q, expected HH:MM", t)
		}
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid time %q, expected HH:MM", t)
		}
		if seen[t] {
			return fmt.Errorf("duplicate time slot %q", t)
		}
		seen[t] = true
	}
	return nil
}

// CreateReminder creates a reminder for one of the patient's prescriptions.
// When no times are supplied they are seeded from the frequency catalog.
func CreateReminder(c *gin.Context) {
	var req models.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	patientID := c.GetString("account_id")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	var prescription models.Prescription
	if err := db.Where("id = ?", req.PrescriptionID).First(&prescription).Error; err != nil {
		handleError(c, http.StatusNotFound, "Prescription not found", err)
		return
	}
	if prescription.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Prescription belongs to another patient"})
		return
	}

	// One reminder per prescription.
	var existing models.Reminder
	if err := db.Where("prescription_id = ?", req.PrescriptionID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Reminder already exists for this prescription"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, http.StatusInternalServerError, "Failed to check existing reminder", err)
		return
	}

	notification := models.NotificationType(req.Notification)

	if len(req.ReminderTimes) == 0 {
		reminder, err := reminderSvc.SeedForPrescription(c.Request.Context(), &prescription, notification)
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to create reminder", err)
			return
		}
		c.JSON(http.StatusCreated, reminder)
		return
	}

	if err := validateTriggerTimes(req.ReminderTimes); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	reminder := models.Reminder{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		PrescriptionID: prescription.ID,
		MedicineName:   prescription.MedicationName,
		Dosage:         prescription.Dosage,
		Frequency:      prescription.Frequency,
		ReminderTimes:  req.ReminderTimes,
		StartDate:      prescription.StartDate,
		EndDate:        prescription.EndDate,
		Notification:   notification,
		IsEnabled:      true,
	}

	if err := db.Create(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create reminder", err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// GetReminders lists all of the patient's reminders, enabled or not
func GetReminders(c *gin.Context) {
	patientID := c.GetString("account_id")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	var reminders []models.Reminder
	if err := db.Where("patient_id = ?", patientID).Order("created_at DESC").Find(&reminders).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// UpdateReminder applies a partial update (times, enable toggle, channel) to
// one of the patient's reminders
func UpdateReminder(c *gin.Context) {
	var req models.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	patientID := c.GetString("account_id")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	var reminder models.Reminder
	if err := db.Where("id = ? AND patient_id = ?", c.Param("id"), patientID).First(&reminder).Error; err != nil {
		handleError(c, http.StatusNotFound, "Reminder not found", err)
		return
	}

	if req.ReminderTimes != nil {
		if err := validateTriggerTimes(*req.ReminderTimes); err != nil {
			handleError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		reminder.ReminderTimes = *req.ReminderTimes
	}
	if req.Notification != nil {
		reminder.Notification = models.NotificationType(*req.Notification)
	}
	if req.IsEnabled != nil {
		reminder.IsEnabled = *req.IsEnabled
	}

	// An enabled reminder always has at least one slot.
	if reminder.IsEnabled && len(reminder.ReminderTimes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An enabled reminder needs at least one time"})
		return
	}

	if err := db.Save(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update reminder", err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes one of the patient's reminders
func DeleteReminder(c *gin.Context) {
	patientID := c.GetString("account_id")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()
	result := db.Where("id = ? AND patient_id = ?", c.Param("id"), patientID).Delete(&models.Reminder{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAlerts drains the patient's pending in-app alerts. The reminder view
// polls this; alerts are transient and gone once fetched.
func GetAlerts(c *gin.Context) {
	patientID := c.GetString("account_id")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts.Drain(patientID)})
}

// StartPolling activates the per-session reminder poller. Called when the
// patient opens the reminder view; idempotent per session.
func StartPolling(c *gin.Context) {
	patientID := c.GetString("account_id")
	token := c.GetString("session_token")
	if patientID == "" || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	pollers.StartSession(token, patientID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// StopPolling tears down the session's poller. Called on view teardown and
// sign-out; no alerts are dispatched for the session afterwards.
func StopPolling(c *gin.Context) {
	token := c.GetString("session_token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	pollers.StopSession(token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
