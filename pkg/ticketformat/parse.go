package ticketformat

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse parses and validates a purchase from JSON
func Parse(data []byte) (*Purchase, error) {
	var p Purchase
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse purchase: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// ParseFile parses a purchase file from disk
func ParseFile(path string) (*Purchase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read purchase file: %w", err)
	}

	return Parse(data)
}

// ToJSON converts a Purchase to JSON bytes
func (p *Purchase) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
