package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxQuantity = 999
	maxName     = 100
	maxEmail    = 254
	maxQuery    = 50
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// Spanish numbers: nine digits, optional +34 prefix.
	rePhone = regexp.MustCompile(`^(\+34)?[0-9]{9}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'%.-]+$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxEmail {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Phone accepts an empty value; telefono is optional.
func Phone(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Name validates a displayable name (nombre, apellido, product names).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxName {
		return "", false
	}
	return s, true
}

// Text trims s and checks it fits in limit runes. Empty is allowed.
func Text(s string, limit int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, utf8.RuneCountInString(s) <= limit
}

// Password requires 8 to 128 bytes with lower, upper, digit and symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 128 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

func Quantity(n int) bool {
	return n >= 1 && n <= MaxQuantity
}

// Q validates a search text: trimmed, letters, digits and a few separators.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxQuery {
		return "", false
	}
	return s, reQ.MatchString(s)
}

// ID validates a resource identifier from a path or body.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reID.MatchString(s)
}

// Price accepts non-negative amounts with at most two decimal places.
func Price(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2))
}

func Discount(pct int) bool {
	return pct >= 0 && pct <= 100
}
