// Package accountcode derives the structural properties of chart-of-account
// codes. Codes are dash-separated digit segments like "1-11-01-01": the
// leading digit encodes the account type, the segment count is the level, and
// the sort key orders siblings by zero-padded segments.
package accountcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// MaxLevel is the deepest allowed position in the account hierarchy.
const MaxLevel = 4

// codePattern matches a leading type digit 1-5 followed by up to three
// two-digit segments.
var codePattern = regexp.MustCompile(`^[1-5](-\d{2}){0,3}$`)

// segmentPadWidth is the fixed width each segment is padded to when deriving
// the numeric sort key, so sibling ordering is code-driven and stable.
const segmentPadWidth = 3

// typeByLeadingDigit maps the first code digit to the account type.
var typeByLeadingDigit = map[byte]domain.AccountType{
	'1': domain.Asset,
	'2': domain.Liability,
	'3': domain.Equity,
	'4': domain.Revenue,
	'5': domain.Expense,
}

// Code holds the properties derived from a validated account code.
type Code struct {
	Raw         string
	Level       int
	AccountType domain.AccountType
	SortOrder   int64
}

// Parse validates a raw code and derives its level, type and sort key.
func Parse(raw string) (Code, error) {
	if !codePattern.MatchString(raw) {
		return Code{}, fmt.Errorf("malformed account code %q: must be a leading digit 1-5 followed by up to %d dash-separated two-digit segments", raw, MaxLevel-1)
	}

	segments := strings.Split(raw, "-")
	accountType, ok := typeByLeadingDigit[raw[0]]
	if !ok {
		// Unreachable given the pattern, kept as a guard.
		return Code{}, fmt.Errorf("account code %q has no valid type digit", raw)
	}

	var sortKey strings.Builder
	for _, seg := range segments {
		sortKey.WriteString(fmt.Sprintf("%0*s", segmentPadWidth, seg))
	}
	// Pad missing levels so "1" sorts ahead of "1-11" and its descendants.
	for i := len(segments); i < MaxLevel; i++ {
		sortKey.WriteString(strings.Repeat("0", segmentPadWidth))
	}

	order, err := strconv.ParseInt(sortKey.String(), 10, 64)
	if err != nil {
		return Code{}, fmt.Errorf("failed to derive sort order for code %q: %w", raw, err)
	}

	return Code{
		Raw:         raw,
		Level:       len(segments),
		AccountType: accountType,
		SortOrder:   order,
	}, nil
}

// ParentCode returns the code one level up, or "" for a top-level code.
func ParentCode(raw string) string {
	idx := strings.LastIndex(raw, "-")
	if idx < 0 {
		return ""
	}
	return raw[:idx]
}
