// Package notifications defines the operator notifications sent by the
// storefront.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/teahouse/app/models"
	"github.com/shashiranjanraj/teahouse/pkg/notification"
)

// OrderPlaced tells the shop operator about a new order.
type OrderPlaced struct {
	Order          models.Order
	CurrencySymbol string
	// Channels defaults to mail only.
	Channels []string
}

func (n OrderPlaced) Via() []string {
	if len(n.Channels) > 0 {
		return n.Channels
	}
	return []string{notification.ChannelMail}
}

func (n OrderPlaced) ToMail() notification.MailData {
	return notification.MailData{
		Subject: "New order from " + n.Order.Name,
		Text:    n.Summary(),
	}
}

func (n OrderPlaced) ToLog() (string, []any) {
	return "new order", []any{
		"order_id", n.Order.ID,
		"name", n.Order.Name,
		"lines", len(n.Order.Cart),
		"total", n.total().String(),
	}
}

// Summary renders the plain-text body:
//
//	Name: A
//	Phone: 123
//	Address: X
//
//	Items:
//	Himalayan Dawn Green x 2 (₹650 each)
//
//	Total: ₹1300
//	Placed at: 2026-10-18T10:00:00Z
func (n OrderPlaced) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", n.Order.Name)
	fmt.Fprintf(&b, "Phone: %s\n", n.Order.Phone)
	fmt.Fprintf(&b, "Address: %s\n", n.Order.Address)
	if n.Order.ID != "" {
		fmt.Fprintf(&b, "Order ID: %s\n", n.Order.ID)
	}

	b.WriteString("\nItems:\n")
	for _, line := range n.Order.Cart {
		fmt.Fprintf(&b, "%s x %s (%s%s each)\n",
			line.Name, decimal.NewFromFloat(line.Qty).String(), n.CurrencySymbol, decimal.NewFromFloat(line.Price).String())
	}

	fmt.Fprintf(&b, "\nTotal: %s%s\n", n.CurrencySymbol, n.total().String())
	fmt.Fprintf(&b, "Placed at: %s\n", n.Order.CreatedAt.Format(time.RFC3339))
	return b.String()
}

// total sums price × qty in decimal so fractional prices never pick up
// float rounding noise.
func (n OrderPlaced) total() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range n.Order.Cart {
		sum = sum.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromFloat(line.Qty)))
	}
	return sum
}
