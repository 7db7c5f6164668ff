package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"medremind/internal/models"

	"gorm.io/gorm"
)

// SweepStore is the slice of the store the lifecycle sweeper needs
type SweepStore interface {
	ListEnabled(ctx context.Context) ([]models.Reminder, error)
	DisableReminder(ctx context.Context, id string) error
	GetPrescription(ctx context.Context, id string) (*models.Prescription, error)
}

// LifecycleSweeper retires reminders whose prescription has ended. It is the
// only path that flips is_enabled from true to false outside direct user
// action.
type LifecycleSweeper struct {
	store SweepStore
	now   func() time.Time
}

// NewLifecycleSweeper creates a sweeper over the given store
func NewLifecycleSweeper(store SweepStore) *LifecycleSweeper {
	return &LifecycleSweeper{
		store: store,
		now:   time.Now,
	}
}

// RetireStale disables every enabled reminder whose prescription is no
// longer active or has passed its end date, returning how many were
// disabled. Re-running with nothing newly stale disables nothing.
func (s *LifecycleSweeper) RetireStale(ctx context.Context) (int, error) {
	reminders, err := s.store.ListEnabled(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	disabled := 0
	for _, r := range reminders {
		prescription, err := s.store.GetPrescription(ctx, r.PrescriptionID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Warning: Failed to load prescription %s for reminder %s: %v", r.PrescriptionID, r.ID, err)
				continue
			}
			// Prescription removed; its reminder goes with it.
		} else if prescription.IsActive(now) {
			continue
		}

		if err := s.store.DisableReminder(ctx, r.ID); err != nil {
			log.Printf("Warning: Failed to disable reminder %s: %v", r.ID, err)
			continue
		}
		disabled++
	}

	if disabled > 0 {
		log.Printf("Lifecycle sweep disabled %d stale reminders", disabled)
	}
	return disabled, nil
}
