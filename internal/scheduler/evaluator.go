package scheduler

import (
	"time"

	"medremind/internal/models"
)

// DueTrigger is one reminder slot that matched the current minute
type DueTrigger struct {
	Reminder models.Reminder
	Time     string
}

// DueTriggers returns the reminder slots due at the given moment that have
// not already fired today, recording each returned slot in the ledger.
//
// Matching is an exact comparison between the local wall-clock "HH:MM" and
// the reminder's stored times. There is deliberately no tolerance window and
// no catch-up: an evaluator that is not running during the matching minute
// misses that slot, and a slot never fires at 08:01 for 08:00.
func DueTriggers(now time.Time, reminders []models.Reminder, ledger *FiredLedger) []DueTrigger {
	slot := now.Format("15:04")

	var due []DueTrigger
	for _, r := range reminders {
		if !r.IsEnabled {
			continue
		}
		for _, t := range r.ReminderTimes {
			if t != slot {
				continue
			}
			if ledger.HasFired(r.ID, t, now) {
				continue
			}
			ledger.MarkFired(r.ID, t, now)
			due = append(due, DueTrigger{Reminder: r, Time: t})
		}
	}
	return due
}
