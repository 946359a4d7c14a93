package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Field names that carry monetary values get their decimal point rendered
// as a comma. Display concern only; stored values are never coerced.
var amountKeyPattern = regexp.MustCompile(`(?i)Amount|Total|Price|Cost|Balance|Tax|Vat`)

// A value counts as numeric when it starts with a number, even with
// trailing text ("12.50 USD"). Parse-by-prefix, not a full parse.
var numericPrefixPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// Stringify renders a field value as the review form shows it: arrays are
// joined with ", ", nil becomes "", everything else uses its plain string
// form. Numeric-looking values stay strings.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatFieldValue renders a value for display, substituting a comma for
// the first decimal point when the field name looks amount-like and the
// value parses as a number.
func FormatFieldValue(key string, value interface{}) string {
	s := Stringify(value)

	if amountKeyPattern.MatchString(key) && numericPrefixPattern.MatchString(strings.TrimSpace(s)) {
		return strings.Replace(s, ".", ",", 1)
	}

	return s
}
