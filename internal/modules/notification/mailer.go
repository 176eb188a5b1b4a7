package notification

import (
	"context"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes outgoing mail to the log instead of delivering it.
type LogMailer struct {
	from string
	log  *zap.Logger
}

func NewLogMailer(from string, log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{from: from, log: log.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("outgoing mail",
		zap.String("from", m.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
