// Package email implementa el sink de notificaciones salientes (SMTP).
package email

// Sender envía un email con cuerpo HTML y texto plano.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}
