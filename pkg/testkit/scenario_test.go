package testkit_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/teahouse/pkg/mail"
	"github.com/shashiranjanraj/teahouse/pkg/testkit"
)

// fixtureHandler powers the testkit self-tests.
func fixtureHandler(t *testing.T, transport mail.Transport) http.Handler {
	mailer := mail.NewMailer(mail.SMTP{Host: "smtp.test", Port: "587", Username: "kit@example.com"}, transport)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/mail":
			var body struct{ Text string }
			_ = json.NewDecoder(r.Body).Decode(&body)
			go func() { _ = mailer.To("ops@example.com").Subject("Fixture").Text(body.Text).Send() }()
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"message":"queued","id":"m-1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	})
}

func TestRunDir_Fixtures(t *testing.T) {
	testkit.RunDir(t, fixtureHandler, "fixtures")
}

func TestRun_SingleScenario(t *testing.T) {
	testkit.Run(t, fixtureHandler, "fixtures/health_check.json")
}

func TestLoadScenario_DefaultsAndPaths(t *testing.T) {
	s, err := testkit.LoadScenario("fixtures/send_mail.json")
	require.NoError(t, err)

	assert.Equal(t, "POST", s.RequestMethod)
	assert.Equal(t, 202, s.ExpectedCode)
	assert.True(t, filepath.IsAbs(s.RequestBodyPath()))
	assert.Equal(t, "send_mail_req.json", filepath.Base(s.RequestBodyPath()))
	assert.Empty(t, s.ResponseBodyPath())
	require.NotNil(t, s.MailMockStep)
	assert.False(t, s.MailMockStep.Fail)
}

func TestLoadScenario_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no name":  `{"requestUrl":"/","expectedCode":200}`,
		"no url":   `{"name":"x","expectedCode":200}`,
		"no code":  `{"name":"x","requestUrl":"/"}`,
		"not json": `{`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		_, err := testkit.LoadScenario(path)
		assert.Error(t, err, name)
	}
}

func TestLoadAllFromDir_SkipsBodyFiles(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("fixtures")
	assert.Empty(t, errs)
	assert.Len(t, scenarios, 2)

	_, errs = testkit.LoadAllFromDir(t.TempDir())
	assert.Len(t, errs, 1)
}

func TestMailRecorder(t *testing.T) {
	rec := testkit.NewMailRecorder(true)

	go func() {
		_ = rec.Deliver(mail.SMTP{}, "a@example.com", []string{"b@example.com"}, []byte("first"))
	}()
	require.True(t, rec.Wait(1, time.Second))
	assert.Equal(t, []string{"first"}, rec.Messages())

	err := rec.Deliver(mail.SMTP{}, "a@example.com", nil, []byte("second"))
	assert.ErrorIs(t, err, testkit.ErrMockDelivery)
	assert.False(t, rec.Wait(3, 20*time.Millisecond))
}
