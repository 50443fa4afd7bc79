package template

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"courier/internal/domain/notification"
)

var _ notification.Renderer = Engine{}

// Engine substitutes {{key}} placeholders with parameter values.
// Values are inserted verbatim: no escaping and no nested substitution.
type Engine struct{}

// NewEngine creates a new template engine.
func NewEngine() Engine {
	return Engine{}
}

// Render replaces every {{key}} in template with params[key] in a single scan,
// so inserted values are never expanded again. Unmatched placeholders are left as-is.
func (Engine) Render(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}

	pairs := make([]string, 0, 2*len(params))
	for _, key := range slices.Sorted(maps.Keys(params)) {
		pairs = append(pairs, "{{"+key+"}}", params[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// subjects maps lowercased template names to email subject lines.
var subjects = map[string]string{
	"welcome":            "Welcome to Our Service!",
	"password-reset":     "Password Reset Request",
	"order-confirmation": "Order Confirmation",
}

const defaultSubject = "Notification from Our Service"

// Subject returns the email subject for a template name.
func Subject(templateName string) string {
	if s, ok := subjects[strings.ToLower(templateName)]; ok {
		return s
	}
	return defaultSubject
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// PlainText strips HTML tags and collapses whitespace to produce a text/plain alternative.
func PlainText(html string) string {
	text := tagRe.ReplaceAllString(html, "")

	text = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	).Replace(text)

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
