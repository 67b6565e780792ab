package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders table cell values for a locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a Formatter for a BCP 47 locale tag.
// An empty or malformed tag falls back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders v. Numeric values use pattern, which is either a digit
// pattern like "0.00" / "#,##0.###" or a printf verb like "%.3e".
func (f *Formatter) Format(v any, pattern string) string {
	x, ok := toFloat(v)
	if !ok {
		if s, isString := v.(string); isString {
			return s
		}
		return fmt.Sprint(v)
	}
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "∞"
	case math.IsInf(x, -1):
		return "-∞"
	}
	if pattern == "" {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if strings.Contains(pattern, "%") {
		return f.printer.Sprintf(pattern, x)
	}
	p, ok := parseDigitPattern(pattern)
	if !ok {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	opts := []number.Option{
		number.MinFractionDigits(p.minFraction),
		number.MaxFractionDigits(p.maxFraction),
	}
	if !p.grouping {
		opts = append(opts, number.NoSeparator())
	}
	return f.printer.Sprintf("%v", number.Decimal(roundHalfAway(x, p.maxFraction), opts...))
}

// roundHalfAway rounds x to digits fraction digits with halves rounded away
// from zero, so 0.125 becomes 0.13 and 2.5 becomes 3. A result of zero is
// always positive zero.
func roundHalfAway(x float64, digits int) float64 {
	scale := math.Pow10(digits)
	// Beyond 2^53 every float64 is an integer.
	if scaled := x * scale; math.Abs(scaled) < 1<<53 {
		x = math.Round(scaled) / scale
	}
	if x == 0 {
		return 0
	}
	return x
}

// digitPattern is the parsed form of a "#,##0.00" style pattern.
type digitPattern struct {
	minFraction int
	maxFraction int
	grouping    bool
}

// parseDigitPattern parses patterns made of '0', '#', ',' and at most one '.'.
func parseDigitPattern(pattern string) (digitPattern, bool) {
	var p digitPattern
	integer, fraction, hasPoint := strings.Cut(pattern, ".")
	for _, r := range integer {
		switch r {
		case '0', '#':
		case ',':
			p.grouping = true
		default:
			return digitPattern{}, false
		}
	}
	if !hasPoint {
		return p, true
	}
	for _, r := range fraction {
		switch r {
		case '0':
			p.minFraction++
			p.maxFraction++
		case '#':
			p.maxFraction++
		default:
			return digitPattern{}, false
		}
	}
	return p, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
