// Package notification dispatches notifications over one or more channels.
//
// Define a notification:
//
//	type Shipped struct{ Order models.Order }
//	func (n Shipped) Via() []string { return []string{"mail"} }
//	func (n Shipped) ToMail() notification.MailData {
//	    return notification.MailData{Subject: "Shipped", Text: "..."}
//	}
//
// Send it without waiting:
//
//	dispatcher.SendAsync("ops@example.com", Shipped{Order: o})
package notification

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shashiranjanraj/teahouse/pkg/mail"
	"github.com/shashiranjanraj/teahouse/pkg/metrics"
	"github.com/shashiranjanraj/teahouse/pkg/workerpool"
)

const (
	ChannelMail = "mail"
	ChannelLog  = "log"
)

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Text    string // plain-text body
	HTML    string // takes precedence over Text when set
}

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns channel names: "mail", "log".
	Via() []string
}

// Mailable supports the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Loggable supports the log channel.
type Loggable interface {
	ToLog() (msg string, attrs []any)
}

// Dispatcher routes notifications to their channels.
type Dispatcher struct {
	mailer *mail.Mailer
	pool   *workerpool.Pool
	log    *slog.Logger
}

// NewDispatcher wires the mail channel and the pool used by SendAsync. A
// nil pool makes SendAsync use a plain goroutine.
func NewDispatcher(mailer *mail.Mailer, pool *workerpool.Pool, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{mailer: mailer, pool: pool, log: log}
}

// Send delivers n on every channel it names and joins the channel errors.
func (d *Dispatcher) Send(address string, n Notification) error {
	var errs []error
	for _, channel := range n.Via() {
		if err := d.dispatch(address, channel, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
		}
	}
	return errors.Join(errs...)
}

// SendAsync delivers n in the background. The outcome is logged and
// counted, never returned.
func (d *Dispatcher) SendAsync(address string, n Notification) {
	task := func() {
		if err := d.Send(address, n); err != nil {
			metrics.Notifications.WithLabelValues("failed").Inc()
			d.log.Error("notification: delivery failed",
				"notification", fmt.Sprintf("%T", n), "error", err)
			return
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
		d.log.Debug("notification: delivered", "notification", fmt.Sprintf("%T", n))
	}

	if d.pool == nil {
		go task()
		return
	}
	if !d.pool.Go(task) {
		d.log.Warn("notification: pool closed, running detached")
		go task()
	}
}

func (d *Dispatcher) dispatch(address, channel string, n Notification) error {
	switch channel {
	case ChannelMail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return d.sendMail(address, m.ToMail())

	case ChannelLog:
		l, ok := n.(Loggable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Loggable", n)
		}
		msg, attrs := l.ToLog()
		d.log.Info(msg, attrs...)
		return nil

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func (d *Dispatcher) sendMail(address string, data MailData) error {
	if d.mailer == nil {
		return errors.New("notification: no mailer configured")
	}

	to := data.To
	if to == "" {
		to = address
	}
	msg := d.mailer.To(to).Subject(data.Subject)
	if data.HTML != "" {
		msg.Body(data.HTML)
	} else {
		msg.Text(data.Text)
	}
	return msg.Send()
}
