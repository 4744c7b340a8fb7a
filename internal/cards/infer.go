package cards

import "strings"

// categoryRules are checked in order; the first rule with a matching keyword wins.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"Figma", []string{"figma.com"}},
	{"Tickets", []string{"linear.app", "jira", "youtrack", "ticket"}},
	{"Work", []string{"github.com", "gitlab", "bitbucket"}},
	{"Daily Tools", []string{"notion.so", "slack.com"}},
}

// InferCategory maps a URL to a default category label.
func InferCategory(url string) string {
	lower := strings.ToLower(url)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return FallbackCategory
}

// NormalizeURL prefixes https:// when input has no http(s) scheme.
// Nothing else is validated.
func NormalizeURL(input string) string {
	if input == "" {
		return ""
	}
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return input
	}
	return "https://" + input
}
