package campaigner

import (
	"regexp"
	"sort"
	"strings"
)

// subjectMarker matches the required first line of a campaign template:
//
//	<!--subject: Your subject here -->
//
// The subject text is captured with surrounding whitespace stripped.
var subjectMarker = regexp.MustCompile(`^<!--subject:\s*(.+?)\s*-->\s*$`)

// placeholderPattern matches {{identifier}} tokens in subjects and bodies.
var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Template is a parsed campaign template. Subject and Body may both contain
// {{placeholder}} tokens substituted per contact at send time.
type Template struct {
	// Subject is the subject line with the comment markers stripped.
	Subject string

	// Body is the HTML body: every line after the first, unchanged.
	Body string
}

// ParseTemplate parses raw template text. The first line must declare the
// subject via the <!--subject: ... --> marker; everything after it becomes
// the body verbatim. No HTML validation is performed.
func ParseTemplate(content []byte) (*Template, error) {
	text := string(content)

	firstLine := text
	body := ""
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
		body = text[idx+1:]
	}
	firstLine = strings.TrimSuffix(firstLine, "\r")

	m := subjectMarker.FindStringSubmatch(firstLine)
	if m == nil {
		return nil, &FormatError{
			Reason: "template missing subject line: add <!--subject: Your subject --> at the top",
		}
	}

	subject := strings.TrimSpace(m[1])
	if subject == "" {
		return nil, &FormatError{
			Reason: "template subject is empty",
		}
	}

	return &Template{
		Subject: subject,
		Body:    body,
	}, nil
}

// Placeholders returns the distinct {{identifier}} names used in s, sorted.
func Placeholders(s string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		seen[m[1]] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders returns the distinct placeholder names used in the template's
// subject and body combined.
func (t *Template) Placeholders() []string {
	return Placeholders(t.Subject + " " + t.Body)
}
