package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	title    = cases.Title(language.Und, cases.NoLower)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "DTO", "EOF", "GUID", "HTML", "HTTP",
		"HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP",
		"SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8",
		"UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers a word as an initialism for the naming helpers, so
// that pascal("foo_abc") yields "FooABC" rather than "FooAbc".
func AddAcronym(word string) {
	acronyms[strings.ToUpper(word)] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// words splits an identifier into its words, breaking on separators and on
// camel-case boundaries. An upper-case run followed by a plural "s" tail is
// kept whole, so "UserIDs" splits into ["User", "IDs"].
func words(s string) []string {
	var (
		out []string
		buf []rune
	)
	flush := func() {
		if len(buf) > 0 {
			out = append(out, string(buf))
			buf = nil
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case isSeparator(r):
			flush()
		case unicode.IsUpper(r) && i > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			pluralTail := i+1 < len(rs) && rs[i+1] == 's' && (i+2 == len(rs) || !unicode.IsLower(rs[i+2]))
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower && !pluralTail) {
				flush()
			}
			buf = append(buf, r)
		default:
			buf = append(buf, r)
		}
	}
	flush()
	return out
}

// pascal converts an identifier to PascalCase, upper-casing registered
// acronyms: "user_id" becomes "UserID", "api_url" becomes "APIURL".
func pascal(s string) string {
	ws := words(s)
	for i, w := range ws {
		if upper := strings.ToUpper(w); isAcronym(upper) {
			ws[i] = upper
			continue
		}
		ws[i] = title.String(w)
	}
	return strings.Join(ws, "")
}

// camel converts an identifier to camelCase: "user_id" becomes "userID",
// "TenantID" becomes "tenantID".
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return s
	}
	out := strings.ToLower(ws[0])
	for _, w := range ws[1:] {
		if upper := strings.ToUpper(w); isAcronym(upper) {
			out += upper
			continue
		}
		out += title.String(strings.ToLower(w))
	}
	return out
}

// snake converts an identifier to snake_case: "HTTPCode" becomes
// "http_code", "UserIDs" becomes "user_ids".
func snake(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// kebab converts an identifier to kebab-case, the form used in route paths.
func kebab(s string) string {
	return strings.ReplaceAll(snake(s), "_", "-")
}

// plural returns the plural form of s, preserving the casing of the last
// word: plural("Category") is "Categories".
func plural(s string) string {
	return rules.Pluralize(s)
}

// singular returns the singular form of s.
func singular(s string) string {
	return rules.Singularize(s)
}

// Pascal exposes the pascal helper to emitter packages.
func Pascal(s string) string { return pascal(s) }

// Camel exposes the camel helper to emitter packages.
func Camel(s string) string { return camel(s) }

// Snake exposes the snake helper to emitter packages.
func Snake(s string) string { return snake(s) }

// Plural exposes the plural helper to emitter packages.
func Plural(s string) string { return plural(s) }

// receiver derives a short receiver identifier from a type name:
// receiver("UserQuery") is "uq". Go keywords are prefixed with an
// underscore.
func receiver(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		r := []rune(w)
		b.WriteRune(unicode.ToLower(r[0]))
	}
	out := b.String()
	if out == "" || token.IsKeyword(out) {
		out = "_" + out
	}
	return out
}

func isAcronym(upper string) bool {
	_, ok := acronyms[upper]
	return ok
}
