package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType selects which channels a reminder is delivered through
type NotificationType string

const (
	NotifyInApp NotificationType = "in_app"
	NotifyEmail NotificationType = "email"
	NotifyBoth  NotificationType = "both"
)

// TriggerTimes is an ordered list of "HH:MM" wall-clock strings stored as JSONB
type TriggerTimes []string

func (t TriggerTimes) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

func (t *TriggerTimes) Scan(value interface{}) error {
	if value == nil {
		*t = make([]string, 0)
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type for TriggerTimes: %T", value)
	}
}

// Reminder is one medication reminder per (patient, prescription) pair.
// Times are seeded from the frequency catalog on creation but stay
// independently editable afterwards.
type Reminder struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	PatientID      string           `gorm:"size:36;not null;index" json:"patient_id"`
	PrescriptionID string           `gorm:"size:36;not null;uniqueIndex" json:"prescription_id"`
	MedicineName   string           `gorm:"size:255;not null" json:"medicine_name"`
	Dosage         string           `gorm:"size:100" json:"dosage"`
	Frequency      string           `gorm:"size:50" json:"frequency"`
	ReminderTimes  TriggerTimes     `gorm:"type:jsonb;not null" json:"reminder_times"`
	StartDate      datatypes.Date   `gorm:"not null" json:"start_date"`
	EndDate        *datatypes.Date  `json:"end_date"`
	Notification   NotificationType `gorm:"size:10;not null;default:in_app" json:"notification_type"`
	IsEnabled      bool             `gorm:"not null;default:true" json:"is_enabled"`
	CreatedAt      time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook fills in timestamps and defaults
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	if r.Notification == "" {
		r.Notification = NotifyInApp
	}
	return nil
}

// BeforeSave hook keeps UpdatedAt current
func (r *Reminder) BeforeSave(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Reminder model
func (Reminder) TableName() string {
	return "reminder"
}

// CoversDate reports whether the reminder's validity window contains the
// given day. Dates are compared as calendar days, end date inclusive.
func (r *Reminder) CoversDate(day time.Time) bool {
	d := day.Format("2006-01-02")
	if time.Time(r.StartDate).Format("2006-01-02") > d {
		return false
	}
	if r.EndDate != nil && time.Time(*r.EndDate).Format("2006-01-02") < d {
		return false
	}
	return true
}

// CreateReminderRequest represents the data needed to create a reminder.
// ReminderTimes may be omitted, in which case the frequency catalog seeds them.
type CreateReminderRequest struct {
	PrescriptionID string   `json:"prescription_id" binding:"required"`
	ReminderTimes  []string `json:"reminder_times"`
	Notification   string   `json:"notification_type" binding:"omitempty,oneof=in_app email both"`
}

// UpdateReminderRequest represents a partial update to a reminder
type UpdateReminderRequest struct {
	ReminderTimes *[]string `json:"reminder_times"`
	Notification  *string   `json:"notification_type" binding:"omitempty,oneof=in_app email both"`
	IsEnabled     *bool     `json:"is_enabled"`
}
