// Package mail provides a fluent SMTP mailer.
//
//	err := mail.NewMailer(mail.DefaultSMTP(), nil).To("ops@example.com").
//	    Subject("New order").
//	    Text("…").
//	    Send()
package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/shashiranjanraj/teahouse/config"
)

// ErrNotConfigured is returned by Send when no sender credentials are set.
var ErrNotConfigured = errors.New("mail: MAIL_USERNAME not configured")

// SMTP holds connection credentials.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string // defaults to Username
	FromName string
}

// Configured reports whether a sender identity is present.
func (c SMTP) Configured() bool { return c.Username != "" }

func (c SMTP) fromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// DefaultSMTP reads MAIL_* settings.
func DefaultSMTP() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.gmail.com"),
		Port:     config.Get("MAIL_PORT", "465"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", ""),
		FromName: config.Get("MAIL_FROM_NAME", "Teahouse Orders"),
	}
}

// Transport delivers an already-rendered message.
type Transport interface {
	Deliver(cfg SMTP, from string, to []string, raw []byte) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(cfg SMTP, from string, to []string, raw []byte) error

func (f TransportFunc) Deliver(cfg SMTP, from string, to []string, raw []byte) error {
	return f(cfg, from, to, raw)
}

// SMTPTransport talks to a real server: implicit TLS on 465, STARTTLS via
// smtp.SendMail otherwise.
type SMTPTransport struct {
	// TLSConfig is used for implicit TLS. ServerName defaults to the host.
	TLSConfig *tls.Config
	// ImplicitTLS forces implicit TLS on ports other than 465.
	ImplicitTLS bool
}

func (t SMTPTransport) Deliver(cfg SMTP, from string, to []string, raw []byte) error {
	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	if cfg.Port == "465" || t.ImplicitTLS {
		return sendTLS(addr, t.tlsConfig(cfg.Host), auth, from, to, raw)
	}
	return smtp.SendMail(addr, auth, from, to, raw)
}

func (t SMTPTransport) tlsConfig(host string) *tls.Config {
	if t.TLSConfig == nil {
		return &tls.Config{ServerName: host}
	}
	conf := t.TLSConfig.Clone()
	if conf.ServerName == "" {
		conf.ServerName = host
	}
	return conf
}

func sendTLS(addr string, conf *tls.Config, auth smtp.Auth, from string, to []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, conf)
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, conf.ServerName)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ------------------- Mailer -------------------

// Mailer binds SMTP settings to a transport.
type Mailer struct {
	cfg       SMTP
	transport Transport
}

// NewMailer returns a Mailer. A nil transport means SMTPTransport.
func NewMailer(cfg SMTP, transport Transport) *Mailer {
	if transport == nil {
		transport = SMTPTransport{}
	}
	return &Mailer{cfg: cfg, transport: transport}
}

// Config returns the SMTP settings the mailer sends with.
func (m *Mailer) Config() SMTP { return m.cfg }

// To starts a message addressed to the given recipients.
func (m *Mailer) To(addresses ...string) *Message {
	return &Message{to: addresses, mailer: m}
}

// ------------------- Message -------------------

type Message struct {
	mailer  *Mailer
	to      []string
	subject string
	body    string
	isHTML  bool
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Send renders and delivers the message.
func (m *Message) Send() error {
	cfg := m.mailer.cfg
	if !cfg.Configured() {
		return ErrNotConfigured
	}

	rcpts := make([]string, 0, len(m.to))
	for _, addr := range m.to {
		if addr = strings.TrimSpace(addr); addr != "" {
			rcpts = append(rcpts, addr)
		}
	}
	if len(rcpts) == 0 {
		return errors.New("mail: no recipients")
	}

	from := cfg.fromAddress()
	raw := m.render(cfg, time.Now())
	if err := m.mailer.transport.Deliver(cfg, from, rcpts, raw); err != nil {
		return fmt.Errorf("mail: deliver: %w", err)
	}
	return nil
}

func (m *Message) render(cfg SMTP, now time.Time) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	from := cfg.fromAddress()
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", cfg.FromName), from)
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", m.subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.body, "\n", "\r\n"))
	return []byte(b.String())
}
