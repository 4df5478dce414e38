package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ttcYearsRe  = regexp.MustCompile(`(\d+)\s*(?:-\s*\d+\s*)?(?:years?|yrs?)`)
	ttcMonthsRe = regexp.MustCompile(`(\d+)\s*months?`)
	ttcDaysRe   = regexp.MustCompile(`(\d+)\s*(?:days?)?`)
)

// ParseBool normalizes the source data's boolean vocabulary. "yes", "y",
// "true", "1", and "x" are true; "no", "n", "false", and "0" are false.
// Anything else, including blank, is unknown (nil). Case-insensitive,
// whitespace-trimmed.
func ParseBool(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "x":
		t := true
		return &t
	case "no", "n", "false", "0":
		f := false
		return &f
	}
	return nil
}

// ParseTimeToCrime parses free-text time-to-crime to integer days. Years
// and months are checked before the bare-number fallback so "5 months" does
// not parse as 5 days; a year range ("2-3 years") takes its lower bound.
// Returns nil when no number is present.
func ParseTimeToCrime(text string) *int {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	if m := ttcYearsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		days := n * 365
		return &days
	}
	if m := ttcMonthsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		days := n * 30
		return &days
	}
	if m := ttcDaysRe.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		return &days
	}
	return nil
}
