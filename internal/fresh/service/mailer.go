package service

import (
	"context"
	"log/slog"
)

// Mailer delivers transactional mail (welcome, verification, password
// reset, contact form). Implementations own templating and transport; the
// services only name the message and hand over its data.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// LogMailer writes outbound mail to the log instead of delivering it. The
// default in development and in tests.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	m.Logger.Info("outbound mail",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("template", template),
		slog.Any("data", data),
	)
	return nil
}
