package cfdi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// DisplayDateLayout is the dd/mm/yyyy form used for record dates.
const DisplayDateLayout = "02/01/2006"

// issueDateLayouts are tried in order after the T separator has been replaced
// by a space. Fractional seconds are accepted by the layouts with seconds.
var issueDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAmount reads a monetary attribute value. Missing, unparsable and
// non-finite values yield 0.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// AttrString reads an unprefixed attribute, defaulting to "" when the element
// or the attribute is absent.
func AttrString(el *etree.Element, key string) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(key, "")
}

// AttrAmount reads an unprefixed attribute as an amount via ParseAmount.
func AttrAmount(el *etree.Element, key string) float64 {
	return ParseAmount(AttrString(el, key))
}

// NormalizeIssueDate converts a CFDI Fecha value to dd/mm/yyyy. When the value
// cannot be parsed the raw string is returned unchanged with ok=false.
func NormalizeIssueDate(raw string) (display string, issued time.Time, ok bool) {
	if raw == "" {
		return "", time.Time{}, false
	}
	candidate := strings.ReplaceAll(raw, "T", " ")
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format(DisplayDateLayout), t, true
		}
	}
	return raw, time.Time{}, false
}

// ParseDisplayDate parses a record date in dd/mm/yyyy form.
func ParseDisplayDate(display string) (time.Time, error) {
	t, err := time.Parse(DisplayDateLayout, display)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, display)
	}
	return t, nil
}
