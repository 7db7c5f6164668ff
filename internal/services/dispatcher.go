package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"medremind/internal/models"
)

// EmailSender is the outbound transactional-email provider
type EmailSender interface {
	SendDoseReminder(toName, toEmail, medicineName, dosage string) error
}

// AlertSink receives transient in-session alerts
type AlertSink interface {
	Alert(patientID, title, body string)
}

// NativeNotifier is the platform-level notification surface of the client
// runtime. Permission is requested lazily, once; a denied or undecided
// permission only suppresses the native notification, never the alert.
type NativeNotifier interface {
	RequestPermission() bool
	Notify(patientID, title, body string) error
}

// AccountEmailSource resolves the name/address a patient's email goes to
type AccountEmailSource interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// NotificationDispatcher fans a due trigger out to the channels the
// reminder's notification_type selects. Channels fail independently; an
// email bounce never blocks the in-app alert and vice versa.
type NotificationDispatcher struct {
	email    EmailSender
	alerts   AlertSink
	native   NativeNotifier
	accounts AccountEmailSource

	permissionOnce    sync.Once
	permissionGranted bool
}

// NewNotificationDispatcher wires a dispatcher. native may be nil when no
// platform notification surface exists (permission counts as undecided).
func NewNotificationDispatcher(email EmailSender, alerts AlertSink, native NativeNotifier, accounts AccountEmailSource) *NotificationDispatcher {
	return &NotificationDispatcher{
		email:    email,
		alerts:   alerts,
		native:   native,
		accounts: accounts,
	}
}

// Dispatch delivers one due trigger through every channel its reminder
// selects, returning one result per channel attempted
func (d *NotificationDispatcher) Dispatch(ctx context.Context, reminder models.Reminder, slot string) []models.DispatchResult {
	var results []models.DispatchResult
	switch reminder.Notification {
	case models.NotifyInApp:
		results = append(results, d.DispatchInApp(reminder, slot))
	case models.NotifyEmail:
		results = append(results, d.DispatchEmail(ctx, reminder, slot))
	case models.NotifyBoth:
		results = append(results, d.DispatchInApp(reminder, slot))
		results = append(results, d.DispatchEmail(ctx, reminder, slot))
	default:
		results = append(results, d.DispatchInApp(reminder, slot))
	}
	return results
}

// DispatchInApp shows the transient session alert and, when platform
// permission is granted, a native notification on top
func (d *NotificationDispatcher) DispatchInApp(reminder models.Reminder, slot string) models.DispatchResult {
	title := "Medication Reminder"
	body := fmt.Sprintf("Time to take %s (%s)", reminder.MedicineName, reminder.Dosage)

	d.alerts.Alert(reminder.PatientID, title, body)

	if d.native != nil {
		d.permissionOnce.Do(func() {
			d.permissionGranted = d.native.RequestPermission()
		})
		if d.permissionGranted {
			if err := d.native.Notify(reminder.PatientID, title, body); err != nil {
				// The transient alert already fired; a native failure is not
				// a failed dispatch.
				log.Printf("Warning: Native notification failed for patient %s: %v", reminder.PatientID, err)
			}
		}
	}

	return models.DispatchResult{
		ReminderID: reminder.ID,
		Time:       slot,
		Result:     "sent",
		Sent:       true,
	}
}

// DispatchEmail resolves the patient's address and hands the reminder to the
// email provider. Failures are recorded in the result, never retried.
func (d *NotificationDispatcher) DispatchEmail(ctx context.Context, reminder models.Reminder, slot string) models.DispatchResult {
	result := models.DispatchResult{
		ReminderID: reminder.ID,
		Time:       slot,
	}

	account, err := d.accounts.GetAccount(ctx, reminder.PatientID)
	if err != nil {
		result.Result = fmt.Sprintf("failed: account lookup: %v", err)
		return result
	}
	result.Email = account.Email

	if err := d.email.SendDoseReminder(account.FullName, account.Email, reminder.MedicineName, reminder.Dosage); err != nil {
		log.Printf("Error: Email dispatch for reminder %s failed: %v", reminder.ID, err)
		result.Result = fmt.Sprintf("failed: %v", err)
		return result
	}

	result.Result = "sent"
	result.Sent = true
	return result
}
