package email

import (
	"bytes"
	"errors"
	"fmt"
	htemplate "html/template"
	"time"
)

var (
	ErrSendFailed     = errors.New("email: send failed")
	ErrTemplateRender = errors.New("email: template render failed")
)

// Service renderiza y despacha los emails del sistema: códigos de
// verificación y avisos de aprobación.
type Service struct {
	sender  Sender
	appName string // branding por defecto cuando no hay app origen
}

// NewService crea el servicio sobre un Sender.
func NewService(sender Sender, appName string) *Service {
	if appName == "" {
		appName = "Opsboard"
	}
	return &Service{sender: sender, appName: appName}
}

// VerificationVars son las variables del template de verificación.
type VerificationVars struct {
	Code    string
	AppName string
	TTL     string
}

// SendVerificationCode envía el código de 6 dígitos. appName permite que el
// destinatario vea el branding de la aplicación que originó el registro.
func (s *Service) SendVerificationCode(to, code, appName string, ttl time.Duration) error {
	if appName == "" {
		appName = s.appName
	}
	vars := VerificationVars{
		Code:    code,
		AppName: appName,
		TTL:     fmt.Sprintf("%d minutes", int(ttl.Minutes())),
	}

	var html bytes.Buffer
	if err := verifyHTMLTmpl.Execute(&html, vars); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	text := fmt.Sprintf(
		"Your %s verification code is: %s\n\nThe code expires in %s. If you did not request this, ignore this message.\n",
		vars.AppName, vars.Code, vars.TTL)

	subject := fmt.Sprintf("%s verification code", vars.AppName)
	if err := s.sender.Send(to, subject, html.String(), text); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// SendApprovalNotice avisa al dueño de una cuenta que un admin la aprobó.
func (s *Service) SendApprovalNotice(to, name string) error {
	vars := struct {
		Name    string
		AppName string
	}{Name: name, AppName: s.appName}

	var html bytes.Buffer
	if err := approvalHTMLTmpl.Execute(&html, vars); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	text := fmt.Sprintf("Hi %s,\n\nYour %s account has been approved. You can now sign in.\n", name, s.appName)

	subject := fmt.Sprintf("Your %s account is approved", s.appName)
	if err := s.sender.Send(to, subject, html.String(), text); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

var verifyHTMLTmpl = htemplate.Must(htemplate.New("verify").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>{{.AppName}}</h2>
  <p>Your verification code:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>The code expires in {{.TTL}}. If you did not request this, ignore this message.</p>
</body>
</html>`))

var approvalHTMLTmpl = htemplate.Must(htemplate.New("approval").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>{{.AppName}}</h2>
  <p>Hi {{.Name}},</p>
  <p>Your account has been approved. You can now sign in.</p>
</body>
</html>`))
