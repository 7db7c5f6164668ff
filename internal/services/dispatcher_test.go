package services

import (
	"context"
	"errors"
	"testing"

	"medremind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	err   error
	calls int
	to    string
}

func (f *fakeEmailSender) SendDoseReminder(toName, toEmail, medicineName, dosage string) error {
	f.calls++
	f.to = toEmail
	return f.err
}

type fakeAlertSink struct {
	alerts []string
}

func (f *fakeAlertSink) Alert(patientID, title, body string) {
	f.alerts = append(f.alerts, patientID+": "+body)
}

type fakeNativeNotifier struct {
	granted            bool
	notifyErr          error
	permissionRequests int
	notifications      int
}

func (f *fakeNativeNotifier) RequestPermission() bool {
	f.permissionRequests++
	return f.granted
}

func (f *fakeNativeNotifier) Notify(patientID, title, body string) error {
	f.notifications++
	return f.notifyErr
}

type fakeAccountSource struct {
	account *models.Account
	err     error
}

func (f *fakeAccountSource) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func bothReminder() models.Reminder {
	return models.Reminder{
		ID:           "r1",
		PatientID:    "patient-1",
		MedicineName: "Metformin",
		Dosage:       "850mg",
		Notification: models.NotifyBoth,
	}
}

func TestDispatchBothChannelsIndependently(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("provider returned 500")}
	sink := &fakeAlertSink{}
	accounts := &fakeAccountSource{account: &models.Account{ID: "patient-1", Email: "pat@example.com", FullName: "Pat"}}

	d := NewNotificationDispatcher(email, sink, nil, accounts)
	results := d.Dispatch(context.Background(), bothReminder(), "08:00")

	require.Len(t, results, 2)

	// In-app succeeded even though email failed.
	assert.True(t, results[0].Sent)
	assert.Len(t, sink.alerts, 1)

	assert.False(t, results[1].Sent)
	assert.Contains(t, results[1].Result, "failed")
	assert.Equal(t, "pat@example.com", results[1].Email)
	assert.Equal(t, 1, email.calls, "email failure must not be retried")
}

func TestDispatchSelectsChannelByType(t *testing.T) {
	email := &fakeEmailSender{}
	sink := &fakeAlertSink{}
	accounts := &fakeAccountSource{account: &models.Account{ID: "patient-1", Email: "pat@example.com"}}
	d := NewNotificationDispatcher(email, sink, nil, accounts)

	r := bothReminder()
	r.Notification = models.NotifyInApp
	results := d.Dispatch(context.Background(), r, "08:00")
	require.Len(t, results, 1)
	assert.Zero(t, email.calls)
	assert.Len(t, sink.alerts, 1)

	r.Notification = models.NotifyEmail
	results = d.Dispatch(context.Background(), r, "08:00")
	require.Len(t, results, 1)
	assert.Equal(t, 1, email.calls)
	assert.Len(t, sink.alerts, 1, "email-only dispatch must not alert")
}

func TestDispatchInAppWithNativePermissionGranted(t *testing.T) {
	native := &fakeNativeNotifier{granted: true}
	sink := &fakeAlertSink{}
	d := NewNotificationDispatcher(&fakeEmailSender{}, sink, native, &fakeAccountSource{})

	r := bothReminder()
	d.DispatchInApp(r, "08:00")
	d.DispatchInApp(r, "20:00")

	assert.Equal(t, 1, native.permissionRequests, "permission is requested once, lazily")
	assert.Equal(t, 2, native.notifications)
	assert.Len(t, sink.alerts, 2)
}

func TestDispatchInAppToleratesDeniedPermission(t *testing.T) {
	native := &fakeNativeNotifier{granted: false}
	sink := &fakeAlertSink{}
	d := NewNotificationDispatcher(&fakeEmailSender{}, sink, native, &fakeAccountSource{})

	result := d.DispatchInApp(bothReminder(), "08:00")

	assert.True(t, result.Sent, "denied permission only suppresses the native notification")
	assert.Zero(t, native.notifications)
	assert.Len(t, sink.alerts, 1)
}

func TestDispatchInAppToleratesNativeFailure(t *testing.T) {
	native := &fakeNativeNotifier{granted: true, notifyErr: errors.New("runtime gone")}
	sink := &fakeAlertSink{}
	d := NewNotificationDispatcher(&fakeEmailSender{}, sink, native, &fakeAccountSource{})

	result := d.DispatchInApp(bothReminder(), "08:00")
	assert.True(t, result.Sent)
	assert.Len(t, sink.alerts, 1)
}

func TestDispatchInAppWithoutNativeSurface(t *testing.T) {
	sink := &fakeAlertSink{}
	d := NewNotificationDispatcher(&fakeEmailSender{}, sink, nil, &fakeAccountSource{})

	result := d.DispatchInApp(bothReminder(), "08:00")
	assert.True(t, result.Sent)
	assert.Len(t, sink.alerts, 1)
}

func TestDispatchEmailAccountLookupFailure(t *testing.T) {
	email := &fakeEmailSender{}
	accounts := &fakeAccountSource{err: errors.New("store unreachable")}
	d := NewNotificationDispatcher(email, &fakeAlertSink{}, nil, accounts)

	result := d.DispatchEmail(context.Background(), bothReminder(), "08:00")

	assert.False(t, result.Sent)
	assert.Contains(t, result.Result, "account lookup")
	assert.Zero(t, email.calls)
}
