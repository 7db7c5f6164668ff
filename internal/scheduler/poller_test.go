package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"medremind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderSource struct {
	mu        sync.Mutex
	reminders []models.Reminder
	err       error
	fetches   int
}

func (f *fakeReminderSource) ListEnabledForPatient(ctx context.Context, patientID string) ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.reminders, f.err
}

func (f *fakeReminderSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeInAppDispatcher struct {
	mu         sync.Mutex
	dispatched []string
}

func (f *fakeInAppDispatcher) DispatchInApp(reminder models.Reminder, slot string) models.DispatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, reminder.ID+"@"+slot)
	return models.DispatchResult{ReminderID: reminder.ID, Time: slot, Result: "sent", Sent: true}
}

func (f *fakeInAppDispatcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dispatched...)
}

func TestClientPollerDispatchesDueReminders(t *testing.T) {
	source := &fakeReminderSource{reminders: []models.Reminder{testReminder("r1", "08:00", "20:00")}}
	sink := &fakeInAppDispatcher{}

	poller := NewClientPoller("patient-1", source, sink)
	poller.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }

	poller.Tick()
	assert.Equal(t, []string{"r1@08:00"}, sink.calls())

	// Same minute again: the poller's own ledger suppresses the repeat.
	poller.Tick()
	assert.Equal(t, []string{"r1@08:00"}, sink.calls())
}

func TestClientPollerSkipsEmailOnlyReminders(t *testing.T) {
	r := testReminder("r1", "08:00")
	r.Notification = models.NotifyEmail
	source := &fakeReminderSource{reminders: []models.Reminder{r}}
	sink := &fakeInAppDispatcher{}

	poller := NewClientPoller("patient-1", source, sink)
	poller.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }

	poller.Tick()
	assert.Empty(t, sink.calls())
}

func TestClientPollerSkipsRemindersOutsideWindow(t *testing.T) {
	r := testReminder("r1", "08:00")
	end := dateOf(2024, 1, 10)
	r.EndDate = &end
	source := &fakeReminderSource{reminders: []models.Reminder{r}}
	sink := &fakeInAppDispatcher{}

	poller := NewClientPoller("patient-1", source, sink)
	poller.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }

	poller.Tick()
	assert.Empty(t, sink.calls())
}

func TestClientPollerFetchesFreshEachTick(t *testing.T) {
	source := &fakeReminderSource{}
	poller := NewClientPoller("patient-1", source, &fakeInAppDispatcher{})
	poller.now = func() time.Time { return time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC) }

	poller.Tick()
	poller.Tick()
	poller.Tick()
	assert.Equal(t, 3, source.fetchCount())
}

func TestClientPollerStartAndStop(t *testing.T) {
	source := &fakeReminderSource{}
	poller := NewClientPoller("patient-1", source, &fakeInAppDispatcher{})
	poller.interval = time.Hour // only the immediate activation tick should run

	poller.Start()

	require.Eventually(t, func() bool { return source.fetchCount() == 1 },
		time.Second, 10*time.Millisecond, "activation tick should run immediately")

	poller.Stop()
	poller.Stop() // idempotent

	before := source.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, source.fetchCount(), "no ticks after Stop")
}

func TestPollerManagerLifecycle(t *testing.T) {
	source := &fakeReminderSource{}
	manager := NewPollerManager(source, &fakeInAppDispatcher{})

	manager.StartSession("sess-1", "patient-1")
	manager.StartSession("sess-1", "patient-1") // no duplicate poller

	manager.mu.Lock()
	assert.Len(t, manager.pollers, 1)
	manager.mu.Unlock()

	manager.StopSession("sess-1")
	manager.StopSession("sess-1") // stopping a stopped session is a no-op

	manager.mu.Lock()
	assert.Empty(t, manager.pollers)
	manager.mu.Unlock()
}
