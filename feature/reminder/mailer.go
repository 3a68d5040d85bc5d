package reminder

import (
	"context"

	"go.uber.org/zap"
)

// Mailer is the outbound mail collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes reminders to the log instead of delivering them. It
// is the default until a real delivery backend is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Log.Info("reminder mail",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// RecordingMailer captures sent mail for tests.
type RecordingMailer struct {
	Sent []SentMail
	// Err, when set, fails every send.
	Err error
}

// SentMail is one captured message.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *RecordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}
