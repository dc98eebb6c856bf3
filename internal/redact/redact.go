// Package redact scrubs credentials and other secrets out of freeform text
// before it leaves the dashboard.
package redact

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Markers written in place of redacted content.
const (
	MarkerPassword         = "[REDACTED_PASSWORD]"
	MarkerAPIKey           = "[REDACTED_API_KEY]"
	MarkerToken            = "[REDACTED_TOKEN]"
	MarkerConnectionString = "[REDACTED_CONNECTION_STRING]"
	MarkerAWSKey           = "[REDACTED_AWS_KEY]"
	MarkerPrivateKey       = "[REDACTED_PRIVATE_KEY]"
	MarkerPossibleSecret   = "[POSSIBLE_SECRET_REDACTED]"

	// MarkerContent replaces the whole text when a rule cannot finish matching.
	MarkerContent = "[REDACTED_CONTENT]"
)

const ruleTimeout = 250 * time.Millisecond

// Rule is one entry of the ordered redaction table.
type Rule struct {
	Label       string
	Replacement string
	matcher     *regexp2.Regexp
}

func newRule(label, pattern string, opts regexp2.RegexOptions, replacement string) Rule {
	re := regexp2.MustCompile(pattern, opts)
	re.MatchTimeout = ruleTimeout
	return Rule{Label: label, Replacement: replacement, matcher: re}
}

// rules are applied top to bottom; every rule sees the output of the rules
// above it, so a redacted private key can no longer match the base64 catch-all.
var rules = []Rule{
	newRule("password", `(?:password|passwd|pwd)\s*[:=]\s*\S+`, regexp2.IgnoreCase, MarkerPassword),
	newRule("api_key", `(?:api[_-]?key|apikey)\s*[:=]\s*\S+`, regexp2.IgnoreCase, MarkerAPIKey),
	newRule("token", `(?:bearer|token)\s+[A-Za-z0-9._-]{20,}`, regexp2.IgnoreCase, MarkerToken),
	newRule("connection_string", `(?:Server|Data Source)=[^;]+;[^"'\s]*`, regexp2.IgnoreCase, MarkerConnectionString),
	newRule("aws_key", `AKIA[0-9A-Z]{16}`, regexp2.None, MarkerAWSKey),
	newRule("private_key", `-----BEGIN (?:RSA |EC |DSA )?PRIVATE KEY-----[\s\S]*?-----END (?:RSA |EC |DSA )?PRIVATE KEY-----`, regexp2.None, MarkerPrivateKey),
	newRule("possible_secret", `[a-zA-Z0-9+/]{40,}={0,2}(?=\s|$|")`, regexp2.None, MarkerPossibleSecret),
}

// Rules returns the labels of the redaction table in application order.
func Rules() []string {
	labels := make([]string, 0, len(rules))
	for _, r := range rules {
		labels = append(labels, r.Label)
	}
	return labels
}

// Report describes the outcome of a redaction pass.
type Report struct {
	Text   string
	Counts map[string]int
	Total  int
}

// Redact returns text with every sensitive match replaced by its marker.
func Redact(text string) string {
	return Scan(text).Text
}

// Scan redacts text and counts matches per rule label.
func Scan(text string) Report {
	report := Report{Text: text, Counts: map[string]int{}}
	if text == "" {
		return report
	}
	for _, rule := range rules {
		count, err := countMatches(rule.matcher, report.Text)
		if err != nil {
			return failClosed(report)
		}
		if count == 0 {
			continue
		}
		replaced, err := rule.matcher.Replace(report.Text, rule.Replacement, -1, -1)
		if err != nil {
			return failClosed(report)
		}
		report.Text = replaced
		report.Counts[rule.Label] += count
		report.Total += count
	}
	return report
}

func countMatches(re *regexp2.Regexp, text string) (int, error) {
	count := 0
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		count++
		m, err = re.FindNextMatch(m)
	}
	return count, err
}

func failClosed(report Report) Report {
	report.Text = MarkerContent
	report.Counts["timeout"]++
	report.Total++
	return report
}

// HasRedactions reports whether text carries any redaction marker.
func HasRedactions(text string) bool {
	return strings.Contains(text, "[REDACTED_") || strings.Contains(text, MarkerPossibleSecret)
}
