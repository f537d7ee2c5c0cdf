// Package ticketformat defines the wire types for a ticket purchase
package ticketformat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ticket classes known to the style catalog
const (
	ClassRegular   = "regular"
	ClassVIP       = "vip"
	ClassTableOf5  = "table_of_5"
	ClassTableOf10 = "table_of_10"
)

// Purchase is the purchaser record plus the ordered tickets it bought
type Purchase struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	Reference    string   `json:"reference"`
	PurchaseDate Date     `json:"purchase_date"`
	TotalAmount  float64  `json:"total_amount"`
	Tickets      []Ticket `json:"tickets"`
}

// Ticket is one purchased ticket. Slice order is page order.
type Ticket struct {
	Number string  `json:"ticket_number"`
	Class  string  `json:"ticket_class"`
	Price  float64 `json:"price"`
}

// FullName joins first and last name
func (p *Purchase) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Date is a calendar date that accepts both "2006-01-02" and RFC 3339 on input
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate returns the date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("purchase_date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid purchase_date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	d.Time = t.UTC()
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	if d.Equal(d.Truncate(24 * time.Hour)) {
		return json.Marshal(d.UTC().Format(dateLayout))
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}
