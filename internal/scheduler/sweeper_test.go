package scheduler

import (
	"context"
	"testing"
	"time"

	"medremind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func dateOf(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

type fakeSweepStore struct {
	reminders     map[string]*models.Reminder
	prescriptions map[string]*models.Prescription
	listErr       error
}

func newFakeSweepStore() *fakeSweepStore {
	return &fakeSweepStore{
		reminders:     make(map[string]*models.Reminder),
		prescriptions: make(map[string]*models.Prescription),
	}
}

func (f *fakeSweepStore) ListEnabled(ctx context.Context) ([]models.Reminder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Reminder
	for _, r := range f.reminders {
		if r.IsEnabled {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeSweepStore) DisableReminder(ctx context.Context, id string) error {
	r, ok := f.reminders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.IsEnabled = false
	return nil
}

func (f *fakeSweepStore) GetPrescription(ctx context.Context, id string) (*models.Prescription, error) {
	p, ok := f.prescriptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeSweepStore) addReminder(id, prescriptionID string) {
	f.reminders[id] = &models.Reminder{
		ID:             id,
		PatientID:      "patient-1",
		PrescriptionID: prescriptionID,
		ReminderTimes:  models.TriggerTimes{"08:00"},
		IsEnabled:      true,
	}
}

func TestRetireStaleDisablesCancelledPrescriptions(t *testing.T) {
	store := newFakeSweepStore()
	store.addReminder("r-cancelled", "p-cancelled")
	store.addReminder("r-active", "p-active")
	store.prescriptions["p-cancelled"] = &models.Prescription{ID: "p-cancelled", Status: models.PrescriptionCancelled}
	store.prescriptions["p-active"] = &models.Prescription{ID: "p-active", Status: models.PrescriptionActive}

	sweeper := NewLifecycleSweeper(store)
	disabled, err := sweeper.RetireStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, disabled)
	assert.False(t, store.reminders["r-cancelled"].IsEnabled)
	assert.True(t, store.reminders["r-active"].IsEnabled, "active prescription with no end date stays enabled")
}

func TestRetireStaleDisablesExpiredPrescriptions(t *testing.T) {
	store := newFakeSweepStore()
	store.addReminder("r-expired", "p-expired")
	store.addReminder("r-current", "p-current")

	past := dateOf(2024, 1, 10)
	future := dateOf(2024, 1, 20)
	store.prescriptions["p-expired"] = &models.Prescription{ID: "p-expired", Status: models.PrescriptionActive, EndDate: &past}
	store.prescriptions["p-current"] = &models.Prescription{ID: "p-current", Status: models.PrescriptionActive, EndDate: &future}

	sweeper := NewLifecycleSweeper(store)
	sweeper.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	disabled, err := sweeper.RetireStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, disabled)
	assert.False(t, store.reminders["r-expired"].IsEnabled)
	assert.True(t, store.reminders["r-current"].IsEnabled)
}

func TestRetireStaleDisablesOrphanedReminders(t *testing.T) {
	store := newFakeSweepStore()
	store.addReminder("r-orphan", "p-gone")

	sweeper := NewLifecycleSweeper(store)
	disabled, err := sweeper.RetireStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, disabled)
	assert.False(t, store.reminders["r-orphan"].IsEnabled)
}

func TestRetireStaleIsIdempotent(t *testing.T) {
	store := newFakeSweepStore()
	store.addReminder("r1", "p1")
	store.prescriptions["p1"] = &models.Prescription{ID: "p1", Status: models.PrescriptionCompleted}

	sweeper := NewLifecycleSweeper(store)

	disabled, err := sweeper.RetireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, disabled)

	// Nothing newly stale on the second pass.
	disabled, err = sweeper.RetireStale(context.Background())
	require.NoError(t, err)
	assert.Zero(t, disabled)
}

func TestRetireStalePropagatesListErrors(t *testing.T) {
	store := newFakeSweepStore()
	store.listErr = assert.AnError

	sweeper := NewLifecycleSweeper(store)
	_, err := sweeper.RetireStale(context.Background())
	assert.Error(t, err)
}
