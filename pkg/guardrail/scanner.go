package guardrail

import (
	"regexp"
	"sort"
)

// Category classifies why a piece of submitted text was rejected.
type Category string

const (
	// CategoryPII marks personal data patterns (email addresses, phone
	// numbers).
	CategoryPII Category = "pii"
	// CategoryScript marks script injection patterns.
	CategoryScript Category = "script"
)

// Finding names one field that tripped the scanner and the category of the
// first pattern that matched it.
type Finding struct {
	Field    string
	Category Category
}

// The patterns are deliberately coarse. All of them run in linear time, so
// scanning cost is bounded by input length regardless of content.
var (
	scriptTagPattern = regexp.MustCompile(`(?i)<\s*script`)
	jsSchemePattern  = regexp.MustCompile(`(?i)javascript\s*:`)
	onHandlerPattern = regexp.MustCompile(`(?i)[\s"'<]on[a-z]+\s*=`)

	emailPattern = regexp.MustCompile(`\b[\w.%+-]+@[\w.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// ScanText checks one value and reports the first matching category, or nil.
// Script patterns are checked before PII patterns.
func ScanText(field, value string) *Finding {
	if scriptTagPattern.MatchString(value) ||
		jsSchemePattern.MatchString(value) ||
		onHandlerPattern.MatchString(value) {
		return &Finding{Field: field, Category: CategoryScript}
	}
	if emailPattern.MatchString(value) || phonePattern.MatchString(value) {
		return &Finding{Field: field, Category: CategoryPII}
	}
	return nil
}

// ScanFields checks each named field and returns one finding per offending
// field, ordered by field name. The result does not depend on map iteration
// order. An empty result means the content is acceptable; the scanner never
// rewrites content.
func ScanFields(fields map[string]string) []Finding {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		if f := ScanText(name, fields[name]); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}
