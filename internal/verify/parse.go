package verify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

var (
	footnotePattern = regexp.MustCompile(`(?:\s*(?:\*+|※[0-9]*))+$`)
	strictPattern   = regexp.MustCompile(`^[-+]?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)$`)
	lenientPattern  = regexp.MustCompile(`[-+]?[0-9]+(?:\.[0-9]+)?`)

	// width.Fold leaves these alone.
	spaceAndMinus = strings.NewReplacer("\u2212", "-", "\u3000", " ", "\u00a0", " ")
)

// negativeMarkers are the triangle prefixes Japanese filings use for negatives.
var negativeMarkers = []string{"▲", "△"}

// currencySymbols are stripped when they lead the number. "US$" precedes "$".
var currencySymbols = []string{"¥", "US$", "$", "€", "£"}

// numeral is one stage's parse outcome. signed marks text that carried its
// own sign inside the body. That sign wins over an outer sign, and an
// outer sign wins over wrapping-style negatives.
type numeral struct {
	value  decimal.Decimal
	signed bool
}

// Parse converts a free-form document figure into an exact amount. It never
// yields a silent zero: anything without numeric content is a *ParseError.
//
// Handled notation: full-width characters, parenthesised or ▲/△ negatives,
// leading currency symbols, comma grouping, 億円/百万円/千円/円 suffixes,
// trailing percent signs, and trailing footnote markers (* and ※n).
func Parse(s string) (ParsedAmount, error) {
	text := strings.TrimSpace(normalizeWidth(s))
	if text == "" {
		return ParsedAmount{}, &ParseError{Input: s, Reason: "empty input"}
	}

	text = stripFootnotes(text)
	sign, text := cutLeadingSign(text)
	text, negative := cutNegativeMarker(text)
	text = cutCurrencyPrefix(text)
	text = strings.ReplaceAll(text, ",", "")
	text, unit := cutUnitSuffix(text)
	text, percent := strings.CutSuffix(text, "%")
	text = stripFootnotes(strings.TrimSpace(text))
	if !negative {
		// "(500)百万円" and "¥▲500" only expose their marker once the
		// suffix or symbol is gone.
		text, negative = cutNegativeMarker(text)
	}

	n, ok := parseStrict(text)
	if !ok {
		n, ok = extractLenient(text)
	}
	if !ok {
		return ParsedAmount{}, &ParseError{Input: s}
	}

	v := n.value
	switch {
	case n.signed:
		// The body's own sign is already in v.
	case sign != "":
		if sign == "-" {
			v = v.Neg()
		}
	case negative:
		v = v.Neg()
	}
	if percent {
		return newPercentage(v.Shift(-2)), nil
	}
	return newAmount(v.Shift(unit.exp)), nil
}

// parseStrict accepts text that is exactly one signed decimal.
func parseStrict(text string) (numeral, bool) {
	if !strictPattern.MatchString(text) {
		return numeral{}, false
	}
	return toNumeral(text)
}

// extractLenient takes the first signed decimal embedded anywhere in text.
func extractLenient(text string) (numeral, bool) {
	m := lenientPattern.FindString(text)
	if m == "" {
		return numeral{}, false
	}
	return toNumeral(m)
}

func toNumeral(text string) (numeral, bool) {
	signed := strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+")
	digits := strings.TrimPrefix(text, "+")
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		digits = "-" + leadingZero(rest)
	} else {
		digits = leadingZero(digits)
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return numeral{}, false
	}
	return numeral{value: d, signed: signed}, true
}

func leadingZero(s string) string {
	if strings.HasPrefix(s, ".") {
		return "0" + s
	}
	return s
}

func normalizeWidth(s string) string {
	return spaceAndMinus.Replace(width.Fold.String(s))
}

func stripFootnotes(s string) string {
	return strings.TrimSpace(footnotePattern.ReplaceAllString(s, ""))
}

// cutLeadingSign splits off a leading sign and any space after it, so
// "- 500" and "-(500)" keep their sign.
func cutLeadingSign(s string) (sign, rest string) {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return s[:1], strings.TrimSpace(s[1:])
	}
	return "", s
}

// cutNegativeMarker strips a wrapping negative: full enclosure in
// parentheses or a leading triangle.
func cutNegativeMarker(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := s[1 : len(s)-1]
		if !strings.ContainsAny(inner, "()") {
			return strings.TrimSpace(inner), true
		}
	}
	for _, m := range negativeMarkers {
		if rest, ok := strings.CutPrefix(s, m); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return s, false
}

func cutCurrencyPrefix(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	for _, c := range currencySymbols {
		if rest, ok := strings.CutPrefix(s, c); ok {
			return sign + strings.TrimSpace(rest)
		}
	}
	return sign + s
}
