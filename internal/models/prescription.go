package models

import (
	"time"

	"gorm.io/datatypes"
)

// PrescriptionStatus is the lifecycle state set by doctor/pharmacist workflows
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

// Prescription is the slice of the prescription table the reminder core reads.
// Prescriptions are created and mutated by the doctor/pharmacist workflows;
// this side only ever consumes them to seed reminders and retire stale ones.
type Prescription struct {
	ID             string             `gorm:"primaryKey;size:36" json:"id"`
	PatientID      string             `gorm:"size:36;not null;index" json:"patient_id"`
	MedicationName string             `gorm:"size:255;not null" json:"medication_name"`
	Dosage         string             `gorm:"size:100" json:"dosage"`
	Frequency      string             `gorm:"size:50" json:"frequency"`
	Status         PrescriptionStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	StartDate      datatypes.Date     `gorm:"not null" json:"start_date"`
	EndDate        *datatypes.Date    `json:"end_date"`
	CreatedAt      time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the Prescription model
func (Prescription) TableName() string {
	return "prescription"
}

// IsActive reports whether the prescription should still drive reminders at
// the given moment: status is active and the end date (if any) has not passed.
func (p *Prescription) IsActive(now time.Time) bool {
	if p.Status != PrescriptionActive {
		return false
	}
	if p.EndDate != nil {
		// End date is inclusive: reminders stay live through that day.
		if now.Format("2006-01-02") > time.Time(*p.EndDate).Format("2006-01-02") {
			return false
		}
	}
	return true
}
