package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shashiranjanraj/teahouse/pkg/mail"
)

// HandlerFactory builds a fresh handler for one scenario, sending mail
// through transport.
type HandlerFactory func(t *testing.T, transport mail.Transport) http.Handler

// Run executes a single scenario file.
//
// Lifecycle per scenario:
//  1. Load the scenario JSON file.
//  2. Build a handler with a recording mail transport.
//  3. Fire the request with the body from requestFileName (if set).
//  4. Assert status code, body and keys.
//  5. Assert mail contents when the scenario has a mail step.
func Run(t *testing.T, factory HandlerFactory, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, factory, s)
	})
}

// RunDir runs every scenario in dir as a subtest. Files that fail to parse
// are reported as test failures.
func RunDir(t *testing.T, factory HandlerFactory, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, factory, s)
		})
	}
}

func runScenario(t *testing.T, factory HandlerFactory, s *Scenario) {
	t.Helper()

	var reqBody io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		reqBody = bytes.NewReader(data)
	}

	rec := NewMailRecorder(s.MailMockStep != nil && s.MailMockStep.Fail)
	handler := factory(t, rec)

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	AssertStatusCode(t, s, res.Code)

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, res.Body.Bytes())
		}
	}

	AssertKeysAndMessage(t, s, res.Body.Bytes())
	AssertMail(t, s, rec)
}

// DumpScenario prints a summary of the scenario to stdout.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	fmt.Printf("  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	fmt.Printf("  requestFile:  %s\n", s.RequestFileName)
	fmt.Printf("  responseFile: %s\n", s.ResponseFileName)
	if s.MailMockStep != nil {
		fmt.Printf("  mail: fail=%v contains=%q\n", s.MailMockStep.Fail, s.MailMockStep.Contains)
	}
}
