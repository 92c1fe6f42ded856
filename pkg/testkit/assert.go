package testkit

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mailWait bounds how long a scenario waits for a background delivery.
const mailWait = 2 * time.Second

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody deep-compares the actual body against the expected file
// after normalising both through json.Unmarshal, so key order and
// whitespace never matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal,
		"[%s] response body mismatch", scenario.Name)
}

// AssertKeysAndMessage checks ExpectedKeys and ExpectedMessage against a
// JSON object body.
func AssertKeysAndMessage(t *testing.T, scenario *Scenario, actual []byte) {
	t.Helper()
	if len(scenario.ExpectedKeys) == 0 && scenario.ExpectedMessage == "" {
		return
	}

	var obj map[string]interface{}
	if !assert.NoError(t, json.Unmarshal(actual, &obj),
		"[%s] response is not a JSON object\nbody: %s", scenario.Name, string(actual)) {
		return
	}

	for _, key := range scenario.ExpectedKeys {
		v, ok := obj[key]
		assert.True(t, ok, "[%s] response is missing key %q", scenario.Name, key)
		assert.NotEmpty(t, v, "[%s] response key %q is empty", scenario.Name, key)
	}
	if scenario.ExpectedMessage != "" {
		assert.Equal(t, scenario.ExpectedMessage, obj["message"],
			"[%s] response message mismatch", scenario.Name)
	}
}

// AssertMail waits for a delivery and checks it contains every substring
// the scenario's mail step lists.
func AssertMail(t *testing.T, scenario *Scenario, rec *MailRecorder) {
	t.Helper()
	step := scenario.MailMockStep
	if step == nil || len(step.Contains) == 0 {
		return
	}

	if !assert.True(t, rec.Wait(1, mailWait), "[%s] no mail delivery was attempted", scenario.Name) {
		return
	}
	msg := strings.Join(rec.Messages(), "\n")
	for _, want := range step.Contains {
		assert.Contains(t, msg, want, "[%s] mail body", scenario.Name)
	}
}
