package interchange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/storehub/backend/internal/domain/order"
)

// itemPattern matches one imported line item: "2x Argan Oil (SKU: AO-100)".
// The quantity prefix and SKU suffix are both optional.
var itemPattern = regexp.MustCompile(`^\s*(?:(\d+)\s*x\s+)?(.*?)(?:\s*\(SKU:\s*([^)]*)\))?\s*$`)

// FormatItems renders line items for export as "2x Argan Oil (SKU: AO-100)"
// entries joined by semicolons, the same shape ParseItems reads back, so an
// exported sheet re-imports with its line items intact.
func FormatItems(items []order.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, li := range items {
		entry := fmt.Sprintf("%dx %s", li.Quantity, li.Name)
		if li.SKU != "" {
			entry += fmt.Sprintf(" (SKU: %s)", li.SKU)
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "; ")
}

// ParseItems reads an imported items cell. Entries are separated by
// semicolons; an entry without a quantity prefix defaults to one.
func ParseItems(cell string) []order.LineItem {
	var items []order.LineItem
	for _, entry := range strings.Split(cell, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		m := itemPattern.FindStringSubmatch(entry)
		if m == nil || strings.TrimSpace(m[2]) == "" {
			continue
		}

		qty := 1
		if m[1] != "" {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				qty = n
			}
		}

		items = append(items, order.LineItem{
			Name:     strings.TrimSpace(m[2]),
			SKU:      strings.TrimSpace(m[3]),
			Quantity: qty,
		})
	}
	return items
}
