package services

import (
	"context"
	"fmt"

	"medremind/internal/models"
	"medremind/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderService creates reminder records, seeding trigger times from the
// frequency catalog. The catalog is only consulted here: once created, a
// reminder's times belong to the patient and are never recomputed.
type ReminderService struct {
	db *gorm.DB
}

// NewReminderService creates a reminder service over the given database
func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// SeedForPrescription creates the reminder for a prescription with default
// times derived from its frequency code. One reminder per prescription; a
// second call fails on the unique index.
func (s *ReminderService) SeedForPrescription(ctx context.Context, prescription *models.Prescription, notification models.NotificationType) (*models.Reminder, error) {
	times, _ := scheduler.TimesFor(prescription.Frequency)
	if notification == "" {
		notification = models.NotifyInApp
	}

	reminder := models.Reminder{
		ID:             uuid.NewString(),
		PatientID:      prescription.PatientID,
		PrescriptionID: prescription.ID,
		MedicineName:   prescription.MedicationName,
		Dosage:         prescription.Dosage,
		Frequency:      prescription.Frequency,
		ReminderTimes:  times,
		StartDate:      prescription.StartDate,
		EndDate:        prescription.EndDate,
		Notification:   notification,
		IsEnabled:      true,
	}

	if err := s.db.WithContext(ctx).Create(&reminder).Error; err != nil {
		return nil, fmt.Errorf("failed to create reminder for prescription %s: %w", prescription.ID, err)
	}
	return &reminder, nil
}
