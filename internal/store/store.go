package store

import (
	"context"
	"time"

	"medremind/internal/models"

	"gorm.io/gorm"
)

// Store is the GORM-backed reminder/prescription/account store the
// scheduling components read through
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over the given database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListEnabledForPatient returns the patient's enabled reminders
func (s *Store) ListEnabledForPatient(ctx context.Context, patientID string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.WithContext(ctx).
		Where("patient_id = ? AND is_enabled = ?", patientID, true).
		Find(&reminders).Error
	return reminders, err
}

// ListEnabled returns every enabled reminder across all patients
func (s *Store) ListEnabled(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Find(&reminders).Error
	return reminders, err
}

// ListEnabledDue returns the enabled reminders whose validity window
// contains the given day, across all patients. This is the sweep's working
// set.
func (s *Store) ListEnabledDue(ctx context.Context, day time.Time) ([]models.Reminder, error) {
	d := day.Format("2006-01-02")
	var reminders []models.Reminder
	err := s.db.WithContext(ctx).
		Where("is_enabled = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", true, d, d).
		Find(&reminders).Error
	return reminders, err
}

// DisableReminder flips one reminder's enable flag off
func (s *Store) DisableReminder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_enabled": false, "updated_at": time.Now()}).Error
}

// GetPrescription loads one prescription by ID
func (s *Store) GetPrescription(ctx context.Context, id string) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&prescription).Error; err != nil {
		return nil, err
	}
	return &prescription, nil
}

// GetAccount loads one account by ID
func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
