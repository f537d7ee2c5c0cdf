package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

func purchase() *ticketformat.Purchase {
	return &ticketformat.Purchase{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Reference:    "REF123",
		PurchaseDate: ticketformat.NewDate(2026, time.January, 14),
		TotalAmount:  50000,
		Tickets:      []ticketformat.Ticket{{Number: "T-001", Class: "vip", Price: 50000}},
	}
}

func TestKey_Stable(t *testing.T) {
	k1, err := Key(purchase(), "pdf")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	k2, _ := Key(purchase(), "pdf")

	if k1 != k2 {
		t.Errorf("Equal inputs gave different keys: %s != %s", k1, k2)
	}
	if !strings.HasPrefix(k1, Prefix+":doc:") {
		t.Errorf("Key %q missing prefix", k1)
	}
	if len(strings.TrimPrefix(k1, Prefix+":doc:")) != 64 {
		t.Errorf("Key %q is not a 32-byte hex digest", k1)
	}
}

func TestKey_Distinguishes(t *testing.T) {
	base, _ := Key(purchase(), "pdf")

	other := purchase()
	other.Tickets[0].Class = "regular"
	changed, _ := Key(other, "pdf")

	preview, _ := Key(purchase(), "png", "0")

	// Variants are separated, so ("ab") and ("a", "b") differ.
	joined, _ := Key(purchase(), "ab")
	split, _ := Key(purchase(), "a", "b")

	if base == changed {
		t.Error("Different tickets share a key")
	}
	if base == preview {
		t.Error("Different variants share a key")
	}
	if joined == split {
		t.Error("Variant boundaries are ambiguous")
	}
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("Expected error connecting to a closed port")
	}
}
