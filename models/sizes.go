package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SizeVocabulary is the set of garment size labels accepted on bookings.
var SizeVocabulary = []string{"XS", "S", "M", "L", "XL", "XXL"}

// SizeBreakdown maps a garment size label to the quantity ordered for it.
// It is persisted as a JSON-encoded text column. Older clients sent the
// column as a pre-encoded JSON string, so Scan accepts both the raw map
// and a doubly-encoded string value.
type SizeBreakdown map[string]int

// Value implements driver.Valuer, encoding the map as JSON for storage.
func (s SizeBreakdown) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sizes: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner, decoding JSON (possibly double-encoded) from storage.
func (s *SizeBreakdown) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported sizes column type %T", value)
	}

	if err := json.Unmarshal(raw, s); err == nil {
		return nil
	}

	// Legacy rows hold a JSON string containing JSON.
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return fmt.Errorf("failed to decode sizes: %w", err)
	}
	if err := json.Unmarshal([]byte(inner), s); err != nil {
		return fmt.Errorf("failed to decode sizes: %w", err)
	}
	return nil
}

// Total returns the sum of all quantities in the breakdown.
func (s SizeBreakdown) Total() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

// Validate checks every size label against the vocabulary and rejects
// negative quantities.
func (s SizeBreakdown) Validate() error {
	for label, qty := range s {
		if !isKnownSize(label) {
			return fmt.Errorf("unknown size label %q", label)
		}
		if qty < 0 {
			return fmt.Errorf("size %q has negative quantity %d", label, qty)
		}
	}
	return nil
}

func isKnownSize(label string) bool {
	for _, known := range SizeVocabulary {
		if label == known {
			return true
		}
	}
	return false
}
