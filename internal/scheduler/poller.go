package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"medremind/internal/models"
)

// PollerLedgerBound caps the client-side ledger; one day of triggers is far
// below this, so a wholesale clear almost never coincides with a live slot
const PollerLedgerBound = 100

// PatientReminderSource fetches the enabled reminders for one patient. The
// poller re-fetches on every tick so edits made elsewhere show up within a
// minute.
type PatientReminderSource interface {
	ListEnabledForPatient(ctx context.Context, patientID string) ([]models.Reminder, error)
}

// InAppDispatcher delivers a due trigger to the patient's active session
type InAppDispatcher interface {
	DispatchInApp(reminder models.Reminder, slot string) models.DispatchResult
}

// ClientPoller evaluates one signed-in patient's reminders once per minute
// for as long as the session is active, dispatching through the in-app
// channel only. Each poller owns its ledger; nothing is shared with the
// server sweep.
type ClientPoller struct {
	patientID  string
	store      PatientReminderSource
	dispatcher InAppDispatcher
	ledger     *FiredLedger
	interval   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	ticking  bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewClientPoller creates a poller for one patient session
func NewClientPoller(patientID string, store PatientReminderSource, dispatcher InAppDispatcher) *ClientPoller {
	return &ClientPoller{
		patientID:  patientID,
		store:      store,
		dispatcher: dispatcher,
		ledger:     NewFiredLedger(PollerLedgerBound),
		interval:   time.Minute,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Start runs the polling loop in the background: one immediate check, then
// one per interval until Stop is called
func (p *ClientPoller) Start() {
	go p.run()
}

func (p *ClientPoller) run() {
	p.Tick()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Stop cancels the timer. No dispatch happens after Stop returns and the
// in-flight tick, if any, finishes on its own.
func (p *ClientPoller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// Tick runs one evaluation pass. A tick that is still fetching when the next
// one fires is not overlapped; the late tick is skipped instead.
func (p *ClientPoller) Tick() {
	p.mu.Lock()
	if p.ticking {
		p.mu.Unlock()
		return
	}
	p.ticking = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.ticking = false
		p.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reminders, err := p.store.ListEnabledForPatient(ctx, p.patientID)
	if err != nil {
		log.Printf("Warning: Reminder poll for patient %s failed: %v", p.patientID, err)
		return
	}

	now := p.now()
	today := now
	due := make([]DueTrigger, 0)
	for _, trigger := range DueTriggers(now, reminders, p.ledger) {
		if !trigger.Reminder.CoversDate(today) {
			continue
		}
		due = append(due, trigger)
	}

	for _, trigger := range due {
		// Email-only reminders are the server sweep's job.
		if trigger.Reminder.Notification == models.NotifyEmail {
			continue
		}
		result := p.dispatcher.DispatchInApp(trigger.Reminder, trigger.Time)
		if !result.Sent {
			log.Printf("Warning: In-app dispatch failed for reminder %s: %s", trigger.Reminder.ID, result.Result)
		}
	}
}

// PollerManager tracks one running poller per session key, starting it when
// the patient's reminder view activates and stopping it on teardown/sign-out
type PollerManager struct {
	store      PatientReminderSource
	dispatcher InAppDispatcher

	mu      sync.Mutex
	pollers map[string]*ClientPoller
}

// NewPollerManager creates an empty manager
func NewPollerManager(store PatientReminderSource, dispatcher InAppDispatcher) *PollerManager {
	return &PollerManager{
		store:      store,
		dispatcher: dispatcher,
		pollers:    make(map[string]*ClientPoller),
	}
}

// StartSession starts a poller for the session if none is running
func (m *PollerManager) StartSession(sessionKey, patientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pollers[sessionKey]; ok {
		return
	}
	poller := NewClientPoller(patientID, m.store, m.dispatcher)
	m.pollers[sessionKey] = poller
	poller.Start()
}

// StopSession tears down the session's poller if one is running
func (m *PollerManager) StopSession(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if poller, ok := m.pollers[sessionKey]; ok {
		poller.Stop()
		delete(m.pollers, sessionKey)
	}
}

// StopAll tears down every running poller (server shutdown)
func (m *PollerManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, poller := range m.pollers {
		poller.Stop()
		delete(m.pollers, key)
	}
}
