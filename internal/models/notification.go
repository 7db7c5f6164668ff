package models

// DispatchResult records the outcome of delivering one due trigger. Results
// live only in the sweep response and the logs; fired slots are tracked by
// the in-memory ledger, not a table.
type DispatchResult struct {
	ReminderID string `json:"reminder_id"`
	Email      string `json:"email,omitempty"`
	Time       string `json:"time"`
	Result     string `json:"result"` // "sent" or "failed: <reason>"
	Sent       bool   `json:"-"`
}

// SweepResponse is the body returned by the scheduled sweep invocation
type SweepResponse struct {
	Success           bool             `json:"success"`
	NotificationsSent int              `json:"notifications_sent"`
	Notifications     []DispatchResult `json:"notifications"`
}

// ManualReminderRequest is the body of the ad-hoc (session-authenticated)
// reminder send used for testing delivery
type ManualReminderRequest struct {
	PatientEmail string `json:"patient_email" binding:"required,email"`
	MedicineName string `json:"medicine_name" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Notification string `json:"notification_type" binding:"omitempty,oneof=in_app email both"`
}
