package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/teahouse/pkg/bind"
)

type input struct {
	Name string   `json:"name" validate:"required"`
	Tags []string `json:"tags" validate:"required,min=1"`
}

func TestJSON_Valid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"A","tags":["x"]}`))
	var in input
	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "A", in.Name)
}

func TestJSON_ValidationErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"tags":[]}`))
	var in input
	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "tags")
}

func TestJSON_Malformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"tags":"nope"}`))
	var in input
	_, err := bind.JSON(httptest.NewRecorder(), req, &in)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestJSON_Empty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	var in input
	_, err := bind.JSON(httptest.NewRecorder(), req, &in)
	assert.ErrorIs(t, err, bind.ErrEmptyBody)
}

func TestJSON_TooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "16")
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 64)+`"}`))
	var in input
	_, err := bind.JSON(httptest.NewRecorder(), req, &in)
	assert.ErrorContains(t, err, "too large")
}
