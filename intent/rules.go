package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Rule is one prioritized extraction step: a capture pattern for a
// named parameter plus a validator for the captured text. Rules run in
// declaration order; the first valid capture for a parameter wins and
// later rules for the same parameter are skipped.
type Rule struct {
	Param    string
	Pattern  *regexp.Regexp
	Validate func(string) bool
}

func validName(s string) bool {
	return strings.TrimSpace(s) != ""
}

func validAmount(s string) bool {
	d, err := parseAmount(s)
	return err == nil && d.IsPositive()
}

func validRef(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
