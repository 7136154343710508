package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
)

// SendFunc matches smtp.SendMail so tests can capture outgoing mail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	fromName  string
	toEmail   string
	siteURL   string
	send      SendFunc
	templates *template.Template
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		fromName:  cfg.SMTPFromName,
		toEmail:   cfg.ContactEmailTo,
		siteURL:   cfg.FrontendURL,
		send:      smtp.SendMail,
		templates: template.Must(template.New("mail").Parse(mailTemplates)),
	}
}

// WithSender replaces the transport; used by tests.
func (s *EmailService) WithSender(fn SendFunc) *EmailService {
	s.send = fn
	return s
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.fromEmail != ""
}

type notificationData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
	ReceivedAt  string
}

// SendContactNotification forwards a new submission to the site owner.
func (s *EmailService) SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error {
	data := notificationData{
		SenderName:  msg.Name,
		SenderEmail: msg.Email,
		Subject:     stripNewlines(msg.Subject),
		Message:     msg.Message,
		ReceivedAt:  msg.CreatedAt.UTC().Format(time.RFC1123),
	}
	return s.deliver(ctx, outgoing{
		to:       s.toEmail,
		replyTo:  msg.Email,
		subject:  "Contact Form: " + msg.Subject,
		template: "notification",
		data:     data,
	})
}

type acknowledgementData struct {
	Name    string
	Subject string
	SiteURL string
}

// SendContactAcknowledgement confirms receipt to the visitor.
func (s *EmailService) SendContactAcknowledgement(ctx context.Context, msg *domain.ContactMessage) error {
	return s.deliver(ctx, outgoing{
		to:       msg.Email,
		subject:  "We received your message: " + msg.Subject,
		template: "acknowledgement",
		data:     acknowledgementData{Name: msg.Name, Subject: stripNewlines(msg.Subject), SiteURL: s.siteURL},
	})
}

type replyData struct {
	Name            string
	Body            string
	OriginalSubject string
	OriginalMessage string
}

// SendContactReply delivers an admin reply to the original sender.
func (s *EmailService) SendContactReply(ctx context.Context, msg *domain.ContactMessage, reply *domain.ContactReply) error {
	return s.deliver(ctx, outgoing{
		to:       msg.Email,
		replyTo:  s.toEmail,
		subject:  reply.Subject,
		template: "reply",
		data: replyData{
			Name:            msg.Name,
			Body:            reply.Body,
			OriginalSubject: stripNewlines(msg.Subject),
			OriginalMessage: msg.Message,
		},
	})
}

type outgoing struct {
	to       string
	replyTo  string
	subject  string
	template string
	data     any
}

func (s *EmailService) deliver(ctx context.Context, m outgoing) error {
	if !s.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, m.template, m.data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := s.buildMessage(m, body.String())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{m.to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(m outgoing, body string) []byte {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.fromName), s.fromEmail)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.to)
	if m.replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", m.replyTo)
	}
	// Subjects carry user input; encode to keep headers single-line
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", stripNewlines(m.subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
