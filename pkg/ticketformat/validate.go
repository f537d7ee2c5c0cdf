package ticketformat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingName      = errors.New("first_name and last_name are required")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrMissingReference = errors.New("reference is required")
	ErrMissingDate      = errors.New("purchase_date is required")
)

// Validate checks the fields the renderer trusts. Unknown ticket classes are
// accepted: they render with the regular style.
func Validate(p *Purchase) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return ErrMissingName
	}

	at := strings.Index(p.Email, "@")
	if at <= 0 || at == len(p.Email)-1 || strings.ContainsAny(p.Email, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, p.Email)
	}

	if strings.TrimSpace(p.Reference) == "" {
		return ErrMissingReference
	}
	if p.PurchaseDate.IsZero() {
		return ErrMissingDate
	}
	if p.TotalAmount < 0 {
		return fmt.Errorf("total_amount must not be negative: %v", p.TotalAmount)
	}

	seen := make(map[string]bool, len(p.Tickets))
	for i, t := range p.Tickets {
		if err := validateTicket(&t); err != nil {
			return fmt.Errorf("ticket[%d]: %w", i, err)
		}
		if seen[t.Number] {
			return fmt.Errorf("ticket[%d]: duplicate ticket_number '%s'", i, t.Number)
		}
		seen[t.Number] = true
	}

	return nil
}

func validateTicket(t *Ticket) error {
	if strings.TrimSpace(t.Number) == "" {
		return fmt.Errorf("ticket_number is required")
	}
	if t.Price < 0 {
		return fmt.Errorf("price must not be negative: %v", t.Price)
	}
	return nil
}
