package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/teahouse/pkg/validate"
)

type line struct{ Qty int }

type orderInput struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required,max=5"`
	Note  string `json:"note"  validate:"nullable,min=3"`
	Cart  []line `json:"cart"  validate:"required,min=1"`
	Skip  string
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(&orderInput{Name: "A", Phone: "123", Cart: []line{{Qty: 1}}})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(orderInput{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "cart")
	assert.NotContains(t, errs, "note")
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestEmptySliceFailsMin(t *testing.T) {
	errs := validate.Struct(orderInput{Name: "A", Phone: "1", Cart: []line{}})
	assert.Equal(t, "The cart must be at least 1 items.", errs["cart"])
}

func TestMaxAndNullable(t *testing.T) {
	errs := validate.Struct(orderInput{Name: "A", Phone: "123456", Note: "hi", Cart: []line{{}}})
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "note")
}

func TestWhitespaceCountsAsPresent(t *testing.T) {
	errs := validate.Struct(orderInput{Name: " ", Phone: "1", Cart: []line{{}}})
	assert.NotContains(t, errs, "name")
}

func TestNonStruct(t *testing.T) {
	assert.Empty(t, validate.Struct(42))
	var nilPtr *orderInput
	assert.Empty(t, validate.Struct(nilPtr))
}

func TestUnknownRule(t *testing.T) {
	type in struct {
		X string `json:"x" validate:"email"`
	}
	assert.Contains(t, validate.Struct(in{X: "a"}), "x")
}
