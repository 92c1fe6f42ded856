package mail

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	from string
	to   []string
	raw  string
	err  error
}

func (c *capture) Deliver(_ SMTP, from string, to []string, raw []byte) error {
	c.from, c.to, c.raw = from, to, string(raw)
	return c.err
}

func testCfg() SMTP {
	return SMTP{Host: "smtp.test", Port: "587", Username: "shop@example.com", FromName: "Teahouse"}
}

func TestSend_RendersPlainText(t *testing.T) {
	tr := &capture{}
	err := NewMailer(testCfg(), tr).
		To("ops@example.com", "", "audit@example.com").
		Subject("New order from A").
		Text("line one\nline two").
		Send()
	require.NoError(t, err)

	assert.Equal(t, "shop@example.com", tr.from)
	assert.Equal(t, []string{"ops@example.com", "audit@example.com"}, tr.to)
	assert.Contains(t, tr.raw, "From: Teahouse <shop@example.com>\r\n")
	assert.Contains(t, tr.raw, "To: ops@example.com, audit@example.com\r\n")
	assert.Contains(t, tr.raw, "Subject: New order from A\r\n")
	assert.Contains(t, tr.raw, `Content-Type: text/plain; charset="UTF-8"`)
	assert.True(t, strings.HasSuffix(tr.raw, "\r\n\r\nline one\r\nline two"))
}

func TestSend_NotConfigured(t *testing.T) {
	cfg := testCfg()
	cfg.Username = ""
	err := NewMailer(cfg, &capture{}).To("ops@example.com").Text("x").Send()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_NoRecipients(t *testing.T) {
	err := NewMailer(testCfg(), &capture{}).To(" ").Text("x").Send()
	assert.ErrorContains(t, err, "no recipients")
}

func TestSend_WrapsTransportError(t *testing.T) {
	boom := errors.New("535 auth failed")
	err := NewMailer(testCfg(), &capture{err: boom}).To("ops@example.com").Text("x").Send()
	assert.ErrorIs(t, err, boom)
}

func TestRender_EncodesNonASCIISubjectAndHTML(t *testing.T) {
	m := NewMailer(testCfg(), nil).To("a@example.com").Subject("Order ₹650").Body("<b>hi</b>")
	raw := string(m.render(testCfg(), time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)))

	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "Date: Sun, 18 Oct 2026 09:00:00 +0000")
}

func TestFromOverride(t *testing.T) {
	cfg := testCfg()
	cfg.From = "orders@example.com"
	cfg.FromName = ""
	tr := &capture{}
	require.NoError(t, NewMailer(cfg, tr).To("x@example.com").Text("x").Send())
	assert.Equal(t, "orders@example.com", tr.from)
	assert.Contains(t, tr.raw, "From: orders@example.com\r\n")
}

func TestSMTPTransport_ClosesConnWhenGreetingRejected(t *testing.T) {
	certSrv := httptest.NewUnstartedServer(http.NotFoundHandler())
	certSrv.StartTLS()
	defer certSrv.Close()
	roots := x509.NewCertPool()
	roots.AddCert(certSrv.Certificate())

	ln, err := tls.Listen("tcp", "127.0.0.1:0", certSrv.TLS)
	require.NoError(t, err)
	defer ln.Close()

	readErr := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			readErr <- err
			return
		}
		defer conn.Close()
		_, _ = io.WriteString(conn, "554 no service\r\n")
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, err = conn.Read(make([]byte, 1))
		readErr <- err
	}()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	cfg := SMTP{Host: "127.0.0.1", Port: port, Username: "shop@example.com"}
	tr := SMTPTransport{ImplicitTLS: true, TLSConfig: &tls.Config{RootCAs: roots}}

	err = tr.Deliver(cfg, cfg.Username, []string{"ops@example.com"}, []byte("x"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp handshake")

	select {
	case err := <-readErr:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(3 * time.Second):
		t.Fatal("server never saw the connection close")
	}
}
