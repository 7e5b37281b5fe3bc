// services/mail_service.go
package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"
	"mirage/pkg/utils"
)

type IMailService interface {
	SendPaymentConfirmation(to, name, amount string) error
}

// SMTPConfig holds the mail relay credentials.
type SMTPConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     int    // 465 (implicit TLS) or 587 (STARTTLS)
	Username string
	Password string
	From     string
}

// mailSender is the part of *gomail.Dialer the service uses.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailService struct {
	cfg          SMTPConfig
	sender       mailSender
	confirmation *template.Template
}

const confirmationSubject = "Ticket Purchase Confirmation"

const confirmationTemplate = `Dear {{.Name}},

Your payment of KES {{.Amount}} was successful. Please check your email for further instructions or ticket information.

Thank you for your purchase!

Best regards,
The Team`

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return newSMTPMailService(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)), nil
}

func newSMTPMailService(cfg SMTPConfig, sender mailSender) *smtpMailService {
	return &smtpMailService{
		cfg:          cfg,
		sender:       sender,
		confirmation: template.Must(template.New("confirmation").Parse(confirmationTemplate)),
	}
}

func (s *smtpMailService) SendPaymentConfirmation(to, name, amount string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: no recipient", utils.ErrEmailDelivery)
	}

	var body bytes.Buffer
	if err := s.confirmation.Execute(&body, struct{ Name, Amount string }{name, amount}); err != nil {
		return fmt.Errorf("%w: render: %v", utils.ErrEmailDelivery, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", confirmationSubject)
	m.SetBody("text/plain", body.String())

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrEmailDelivery, err)
	}
	return nil
}
