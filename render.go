package campaigner

// Render substitutes every {{column}} placeholder in tmpl with the contact's
// value for that column. Placeholders with no matching column become the
// empty string; they never fail the run. Substitution is purely textual and
// performs no HTML escaping, so contact file content must be trusted by the
// operator. Rendering is stateless: the same template and contact always
// produce the same output.
func Render(tmpl string, c Contact) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[2 : len(match)-2]
		return c[key]
	})
}

// RenderMessage renders the template's subject and body for one contact.
func RenderMessage(t *Template, c Contact) (subject, body string) {
	return Render(t.Subject, c), Render(t.Body, c)
}
