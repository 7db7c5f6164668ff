package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"medremind/internal/auth"
	"medremind/internal/models"
	"medremind/internal/scheduler"
	"medremind/internal/utils"

	"github.com/gin-gonic/gin"
)

// getSession is swappable in tests
var getSession = auth.GetSession

// sweepRequest is the union of the scheduled and manual invocation bodies;
// the check_scheduled flag picks the path
type sweepRequest struct {
	CheckScheduled bool   `json:"check_scheduled"`
	PatientEmail   string `json:"patient_email"`
	MedicineName   string `json:"medicine_name"`
	Dosage         string `json:"dosage"`
	Notification   string `json:"notification_type"`
}

type sweepSource interface {
	ListEnabledDue(ctx context.Context, day time.Time) ([]models.Reminder, error)
}

type emailDispatcher interface {
	DispatchEmail(ctx context.Context, reminder models.Reminder, slot string) models.DispatchResult
}

type staleRetirer interface {
	RetireStale(ctx context.Context) (int, error)
}

// CheckReminders is the sweep endpoint. The external minute trigger calls it
// with {check_scheduled:true} and the pre-shared X-Cron-Secret header; an
// interactive caller sends the manual body with a bearer session token. The
// two credentials are mutually exclusive: a session token never authorizes
// the scheduled sweep and the cron secret never authorizes a manual send.
func CheckReminders(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	if req.CheckScheduled {
		scheduledSweep(c)
		return
	}
	manualSend(c, req)
}

// scheduledSweep authenticates the cron secret and runs the full pass:
// evaluate all due reminders, email-channel dispatch, then lifecycle sweep
func scheduledSweep(c *gin.Context) {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		handleError(c, http.StatusInternalServerError, "Sweep not configured", fmt.Errorf("CRON_SECRET is not set"))
		return
	}
	provided := c.GetHeader("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		log.Printf("Warning: Rejected sweep call with bad secret from %s", utils.GetRealClientIP(c))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid cron secret"})
		return
	}

	response, err := runScheduledSweep(c.Request.Context(), reminderStore, dispatcher, sweeper, time.Now())
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// runScheduledSweep is one sweep pass. The ledger is scoped to this call
// only: the minute granularity of the external trigger is what keeps slots
// from double-firing across invocations.
func runScheduledSweep(ctx context.Context, src sweepSource, dispatch emailDispatcher, retirer staleRetirer, now time.Time) (*models.SweepResponse, error) {
	reminders, err := src.ListEnabledDue(ctx, now)
	if err != nil {
		return nil, err
	}

	ledger := scheduler.NewFiredLedger(0)
	response := &models.SweepResponse{
		Success:       true,
		Notifications: make([]models.DispatchResult, 0),
	}

	for _, trigger := range scheduler.DueTriggers(now, reminders, ledger) {
		// The server side owns the email channel; in-app-only reminders are
		// the session poller's job.
		if trigger.Reminder.Notification == models.NotifyInApp {
			continue
		}
		result := dispatch.DispatchEmail(ctx, trigger.Reminder, trigger.Time)
		response.Notifications = append(response.Notifications, result)
		response.NotificationsSent++
	}

	if _, err := retirer.RetireStale(ctx); err != nil {
		log.Printf("Warning: Lifecycle sweep failed: %v", err)
	}

	return response, nil
}

// manualSend is the session-authenticated ad-hoc delivery used to test the
// notification pipeline
func manualSend(c *gin.Context, req sweepRequest) {
	session, err := getSession(c)
	if err != nil || session.IsExpired() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	accountID := session.AccountID

	var missing []string
	if req.PatientEmail == "" {
		missing = append(missing, "patient_email")
	}
	if req.MedicineName == "" {
		missing = append(missing, "medicine_name")
	}
	if req.Dosage == "" {
		missing = append(missing, "dosage")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))})
		return
	}

	if req.Notification == string(models.NotifyInApp) {
		alerts.Alert(accountID, "Medication Reminder", fmt.Sprintf("Time to take %s (%s)", req.MedicineName, req.Dosage))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "In-app reminder queued"})
		return
	}

	if err := emailSender.SendDoseReminder("", req.PatientEmail, req.MedicineName, req.Dosage); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to send reminder email", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Reminder email sent to %s", req.PatientEmail)})
}
