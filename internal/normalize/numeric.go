package normalize

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var parenGroup = regexp.MustCompile(`\([^)]*\)`)

// ParseNumericText extracts a line value from upstream text such as "MIN -7", "o44.5",
// "-3½ (-110)" or "PK". It never fails loudly: ok is false whenever no token parses,
// and callers substitute the sport default.
func ParseNumericText(raw string) (float64, bool) {
	text := strings.TrimSpace(parenGroup.ReplaceAllString(raw, " "))
	if text == "" {
		return 0, false
	}
	switch strings.ToUpper(text) {
	case "PK", "PICK", "PICKEM", "EVEN", "EV":
		return 0, true
	}

	text = strings.ReplaceAll(text, "½", ".5")
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '/' || r == ','
	}) {
		if v, ok := parseToken(token); ok {
			return v, true
		}
	}
	return 0, false
}

func parseToken(token string) (float64, bool) {
	t := token
	if len(t) > 1 && strings.ContainsRune("oOuU", rune(t[0])) && startsNumeric(t[1:]) {
		t = t[1:]
	}
	t = strings.TrimPrefix(t, "+")
	if !startsNumeric(t) {
		return 0, false
	}
	if strings.HasPrefix(t, ".") {
		t = "0" + t
	} else if strings.HasPrefix(t, "-.") {
		t = "-0" + t[1:]
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// startsNumeric rejects words like "Inf" or "NaN" before they reach the parser.
func startsNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	c := s[0]
	if c == '.' {
		return len(s) > 1 && s[1] >= '0' && s[1] <= '9'
	}
	return c >= '0' && c <= '9'
}
