package services

import (
	"sync"
	"time"
)

// maxAlertsPerPatient bounds the per-patient alert buffer; alerts are
// transient and anything the session never drained is dropped oldest-first
const maxAlertsPerPatient = 20

// Alert is one transient in-session notification
type Alert struct {
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// AlertCenter holds undelivered in-app alerts per patient until the active
// session polls them. It is the in-process stand-in for the toast the portal
// frontend shows; nothing here is persisted.
type AlertCenter struct {
	mu     sync.Mutex
	queued map[string][]Alert
}

// NewAlertCenter creates an empty alert center
func NewAlertCenter() *AlertCenter {
	return &AlertCenter{queued: make(map[string][]Alert)}
}

// Alert queues a transient alert for the patient's session
func (a *AlertCenter) Alert(patientID, title, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	alerts := append(a.queued[patientID], Alert{Title: title, Body: body, At: time.Now()})
	if len(alerts) > maxAlertsPerPatient {
		alerts = alerts[len(alerts)-maxAlertsPerPatient:]
	}
	a.queued[patientID] = alerts
}

// Drain returns and clears the patient's pending alerts
func (a *AlertCenter) Drain(patientID string) []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	alerts := a.queued[patientID]
	delete(a.queued, patientID)
	return alerts
}
