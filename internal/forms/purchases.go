package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseBought reads the shopping list checklist form. Each listed
// "ingredient" value names an entry; its "bought-<id>" field is a hidden
// "off" optionally followed by the checkbox's "on".
func ParseBought(values url.Values) (map[uint]bool, error) {
	result := make(map[uint]bool)
	invalid := &ValidationError{}
	for _, raw := range values["ingredient"] {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || id == 0 {
			invalid.add("ingredient", fmt.Sprintf("Unknown ingredient %q", raw))
			continue
		}
		bought := false
		for _, state := range values["bought-"+strconv.FormatUint(id, 10)] {
			if state == "on" {
				bought = true
			}
		}
		result[uint(id)] = bought
	}
	if len(invalid.Fields) > 0 {
		return nil, invalid
	}
	return result, nil
}
