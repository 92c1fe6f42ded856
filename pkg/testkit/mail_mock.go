package testkit

import (
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/teahouse/pkg/mail"
)

// ErrMockDelivery is returned by a MailRecorder set to fail.
var ErrMockDelivery = errors.New("testkit: mocked mail delivery failure")

// MailRecorder is a mail.Transport that records every rendered message.
type MailRecorder struct {
	fail bool

	mu       sync.Mutex
	messages [][]byte
	signal   chan struct{}
}

// NewMailRecorder returns a recorder; when fail is set every delivery
// returns ErrMockDelivery after being recorded.
func NewMailRecorder(fail bool) *MailRecorder {
	return &MailRecorder{fail: fail, signal: make(chan struct{}, 64)}
}

var _ mail.Transport = (*MailRecorder)(nil)

func (r *MailRecorder) Deliver(_ mail.SMTP, _ string, _ []string, raw []byte) error {
	r.mu.Lock()
	r.messages = append(r.messages, append([]byte(nil), raw...))
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}

	if r.fail {
		return ErrMockDelivery
	}
	return nil
}

// Messages returns the recorded messages in delivery order.
func (r *MailRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = string(m)
	}
	return out
}

// Wait blocks until n deliveries were attempted or timeout elapses, and
// reports whether n was reached.
func (r *MailRecorder) Wait(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		r.mu.Lock()
		got := len(r.messages)
		r.mu.Unlock()
		if got >= n {
			return true
		}

		select {
		case <-r.signal:
		case <-deadline:
			return false
		}
	}
}
