package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexID is a product reference that clients may send as a JSON string or
// number. It is always stored and rendered as a string.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cart line id must be a string or number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// Text is a request field that may arrive as any JSON scalar. Falsy values
// (null, false, 0, "") decode to "" so a presence check treats them as
// missing; numbers keep their literal form and true becomes "true".
// Objects and arrays keep their compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = ""
	case bytes.Equal(data, []byte("true")):
		*t = "true"
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if f, err := n.Float64(); err == nil && f == 0 {
			*t = ""
			return nil
		}
		*t = Text(n.String())
	}
	return nil
}

// parseNumber reads a JSON number, a numeric string, a bool or null.
// Empty strings and null read as 0.
func parseNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		return 0, nil
	case bytes.Equal(data, []byte("true")):
		return 1, nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		return f, nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return 0, err
		}
		return f, nil
	}
}

// CartLine is a single product line inside an order. Qty is fractional so
// a submitted quantity is stored as sent.
type CartLine struct {
	ID    FlexID  `json:"id"    bson:"id"`
	Name  string  `json:"name"  bson:"name"`
	Price float64 `json:"price" bson:"price"`
	Qty   float64 `json:"qty"   bson:"qty"`
}

// UnmarshalJSON accepts price and qty as numbers or numeric strings and a
// name of any scalar type.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    FlexID          `json:"id"`
		Name  Text            `json:"name"`
		Price json.RawMessage `json:"price"`
		Qty   json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	price, err := parseNumber(raw.Price)
	if err != nil {
		return fmt.Errorf("cart line price: %w", err)
	}
	qty, err := parseNumber(raw.Qty)
	if err != nil {
		return fmt.Errorf("cart line qty: %w", err)
	}

	*l = CartLine{ID: raw.ID, Name: string(raw.Name), Price: price, Qty: qty}
	return nil
}

// Order is an immutable customer submission. ID is opaque: an ObjectID hex
// string for the Mongo store, a decimal counter for the memory store.
type Order struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Cart      []CartLine `json:"cart"`
	CreatedAt time.Time  `json:"createdAt"`
}

// OrderInput is the POST /api/orders request body.
type OrderInput struct {
	Name      Text       `json:"name"      validate:"required"`
	Phone     Text       `json:"phone"     validate:"required"`
	Address   Text       `json:"address"   validate:"required"`
	Cart      []CartLine `json:"cart"      validate:"required,min=1"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// ToOrder builds an unsaved Order, stamping CreatedAt with now when the
// client did not send one.
func (in OrderInput) ToOrder(now time.Time) Order {
	created := now
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		created = *in.CreatedAt
	}

	cart := make([]CartLine, len(in.Cart))
	copy(cart, in.Cart)

	return Order{
		Name:      string(in.Name),
		Phone:     string(in.Phone),
		Address:   string(in.Address),
		Cart:      cart,
		CreatedAt: created,
	}
}
