// Package style holds the read-only visual configuration shared by every
// rendered ticket: the per-class style catalog and the event details.
package style

import (
	"strings"
	"unicode"
)

// Entry is the visual configuration of one ticket class
type Entry struct {
	DisplayName   string `json:"display_name"`
	PriceLabel    string `json:"price_label"`
	UnitLabel     string `json:"unit_label"`
	GradientStart Color  `json:"gradient_start"`
	GradientEnd   Color  `json:"gradient_end"`
}

// DefaultClass is returned for any class missing from the catalog
const DefaultClass = "regular"

var catalog = map[string]Entry{
	"regular": {
		DisplayName:   "Regular Admission",
		PriceLabel:    "25K",
		UnitLabel:     "One Person",
		GradientStart: MustHex("#4b6cb7"),
		GradientEnd:   MustHex("#182848"),
	},
	"vip": {
		DisplayName:   "VIP for Couple",
		PriceLabel:    "50K",
		UnitLabel:     "Two Persons",
		GradientStart: MustHex("#c44569"),
		GradientEnd:   MustHex("#d63447"),
	},
	"table_of_5": {
		DisplayName:   "Table of Five",
		PriceLabel:    "200K",
		UnitLabel:     "Five Persons",
		GradientStart: MustHex("#f7971e"),
		GradientEnd:   MustHex("#e96f0d"),
	},
	"table_of_10": {
		DisplayName:   "Table of Ten",
		PriceLabel:    "350K",
		UnitLabel:     "Ten Persons",
		GradientStart: MustHex("#11998e"),
		GradientEnd:   MustHex("#0b7a6b"),
	},
}

var classOrder = []string{"regular", "vip", "table_of_5", "table_of_10"}

// Resolve returns the entry for a ticket class. Unknown classes get the
// regular entry.
func Resolve(class string) Entry {
	if e, ok := catalog[Normalize(class)]; ok {
		return e
	}
	return catalog[DefaultClass]
}

// Known reports whether class names a catalog entry after normalization
func Known(class string) bool {
	_, ok := catalog[Normalize(class)]
	return ok
}

// Classes lists the catalog keys in display order
func Classes() []string {
	out := make([]string, len(classOrder))
	copy(out, classOrder)
	return out
}

// Normalize lowercases the class and turns whitespace runs into underscores
func Normalize(class string) string {
	fields := strings.FieldsFunc(strings.ToLower(class), unicode.IsSpace)
	return strings.Join(fields, "_")
}
