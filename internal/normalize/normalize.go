// Package normalize turns raw event input into its canonical stored form:
// URL-safe unique slugs, YYYY-MM-DD dates and 24-hour HH:MM times.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"devevents/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	reSlugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	reWhitespace  = regexp.MustCompile(`\s+`)
	reDashes      = regexp.MustCompile(`-+`)
	reClock       = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(\s*(AM|PM))?$`)
)

// Date-time layouts accepted after the plain date layout. Values without an
// offset are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// Slugify returns the base slug for title. It may be empty when title has no
// ASCII letters or digits.
func Slugify(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = reSlugInvalid.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, "-")
	s = reDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DeriveSlug returns a slug for title that does not collide with existing.
// When the base slug or any base-N is taken, the result is base-(max N + 1),
// with the bare base counting as N = 0.
func DeriveSlug(title string, existing []string) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", domain.NewValidationError("title must contain at least one letter or digit")
	}

	highest := -1
	prefix := base + "-"
	for _, s := range existing {
		if s == base {
			highest = max(highest, 0)
			continue
		}
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || !isDigits(rest) {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	if highest < 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, highest+1), nil
}

// NormalizeDate parses an ISO-8601 date or date-time and returns its UTC date
// as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewValidationError("date is required")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(dateLayout), nil
		}
	}
	return "", domain.NewValidationError(fmt.Sprintf("invalid date %q, expected ISO-8601 (YYYY-MM-DD)", raw))
}

// NormalizeTime accepts H:MM or HH:MM with an optional AM/PM suffix and
// returns the zero-padded 24-hour HH:MM form.
func NormalizeTime(raw string) (string, error) {
	m := reClock.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", domain.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM or HH:MM AM/PM", raw))
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	switch strings.ToUpper(m[4]) {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}

	if hours > 23 || minutes > 59 {
		return "", domain.NewValidationError(fmt.Sprintf("invalid time %q: out of range", raw))
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// MatchesBase reports whether slug is base itself or base-N.
func MatchesBase(slug, base string) bool {
	if slug == base {
		return true
	}
	rest, ok := strings.CutPrefix(slug, base+"-")
	return ok && isDigits(rest)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
