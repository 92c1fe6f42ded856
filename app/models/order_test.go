package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/teahouse/app/models"
)

func TestFlexID_AcceptsStringAndNumber(t *testing.T) {
	var lines []models.CartLine
	body := `[{"id":"1","name":"a","price":1,"qty":1},{"id":7,"name":"b","price":2,"qty":3},{"id":null}]`
	require.NoError(t, json.Unmarshal([]byte(body), &lines))

	assert.Equal(t, models.FlexID("1"), lines[0].ID)
	assert.Equal(t, models.FlexID("7"), lines[1].ID)
	assert.Equal(t, models.FlexID(""), lines[2].ID)

	out, err := json.Marshal(lines[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","name":"b","price":2,"qty":3}`, string(out))
}

func TestFlexID_RejectsObjects(t *testing.T) {
	var line models.CartLine
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &line))
}

func TestOrderInput_ToOrder(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	in := models.OrderInput{
		Name: "A", Phone: "123", Address: "X",
		Cart: []models.CartLine{{ID: "1", Name: "Himalayan Dawn Green", Price: 650, Qty: 2}},
	}

	order := in.ToOrder(now)
	assert.Equal(t, now, order.CreatedAt)
	assert.Empty(t, order.ID)
	assert.Equal(t, in.Cart, order.Cart)

	in.Cart[0].Qty = 99
	assert.Equal(t, 2.0, order.Cart[0].Qty, "order must not alias the input cart")

	earlier := now.Add(-time.Hour)
	in.CreatedAt = &earlier
	assert.Equal(t, earlier, in.ToOrder(now).CreatedAt)
}

func TestOrderInput_LenientScalars(t *testing.T) {
	body := `{
		"name": "A",
		"phone": 9876543210,
		"address": "X",
		"cart": [
			{"id": 1, "name": "Darjeeling Muscatel", "price": "820", "qty": "2"},
			{"id": "3", "name": "Assam Malty Breakfast", "price": 480, "qty": 1.5}
		]
	}`

	var in models.OrderInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, models.Text("9876543210"), in.Phone)
	require.Len(t, in.Cart, 2)
	assert.Equal(t, 820.0, in.Cart[0].Price)
	assert.Equal(t, 2.0, in.Cart[0].Qty)
	assert.Equal(t, 1.5, in.Cart[1].Qty)
}

func TestText_FalsyValuesAreEmpty(t *testing.T) {
	cases := map[string]models.Text{
		`null`:    "",
		`false`:   "",
		`0`:       "",
		`0.0`:     "",
		`""`:      "",
		`true`:    "true",
		`42`:      "42",
		`"0"`:     "0",
		`" "`:     " ",
		`[1, 2]`:  "[1,2]",
		`{"a":1}`: `{"a":1}`,
	}
	for raw, want := range cases {
		var got models.Text
		require.NoError(t, json.Unmarshal([]byte(raw), &got), raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestCartLine_RejectsNonNumericPrice(t *testing.T) {
	var line models.CartLine
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","price":"cheap","qty":1}`), &line))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","price":1,"qty":{}}`), &line))
}

func TestCartLine_EmptyNumbersReadAsZero(t *testing.T) {
	var line models.CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":null,"price":"","qty":null}`), &line))
	assert.Equal(t, models.CartLine{ID: "1"}, line)
}
