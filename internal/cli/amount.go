package cli

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for dollar amounts that cannot be parsed.
var ErrInvalidAmount = errors.New("invalid dollar amount")

// ParseDollars converts a dollar string such as "$1,234.56" to cents. A third
// decimal place rounds half up. Negative amounts are rejected.
func ParseDollars(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, ErrInvalidAmount
	}

	dollars, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || dollars > (1<<63-1)/100-1 {
		return 0, ErrInvalidAmount
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}

	return dollars*100 + cents, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
