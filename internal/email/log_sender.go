package email

import "github.com/opsboard/opsboard/internal/observability/logger"

// LogSender escribe los emails al log en lugar de enviarlos. Se usa en
// desarrollo cuando no hay SMTP configurado.
type LogSender struct{}

// NewLogSender crea un sender de desarrollo.
func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) Send(to, subject, _, textBody string) error {
	logger.L().Info("email (dev, not sent)",
		logger.Component("email"),
		logger.String("to", to),
		logger.String("subject", subject),
		logger.String("body", textBody),
	)
	return nil
}
