package service

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// maxTextLen truncates plain-text fields, in runes.
	maxTextLen = 4000

	// mojibakeThreshold rejects a field when this share of its characters
	// look like mis-decoded text.
	mojibakeThreshold = 0.2

	// alphabetThreshold rejects a field when less than this share of its
	// characters belong to the expected alphabet.
	alphabetThreshold = 0.6
)

// mojibake artifacts that show up when UTF-8 is decoded as Latin-1.
var mojibakeRunes = map[rune]struct{}{
	'�': {},
	'Â':      {}, 'Ã': {}, 'Ð': {}, 'Ñ': {},
	'â': {}, '€': {}, '™': {}, 'œ': {}, 'ž': {},
	'¤': {}, '¦': {}, '¢': {},
}

const textPunctuation = `.,:;!?()[]'"-–—/&%+@#№«»*`

// newRichTextPolicy builds the allow-list for rich-text fields: basic
// formatting, links and images only. Links are forced into a new browsing
// context with safe rel attributes, and schemes outside http/https/mailto
// are stripped.
func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "u", "div", "span")
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowElements("a", "img")
	p.AllowAttrs("style").Globally()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

var richTextPolicy = newRichTextPolicy()

// sanitizeHTML runs a rich-text field through the allow-list policy.
func sanitizeHTML(s string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(s))
}

// sanitizeText normalizes a plain-text field: control characters are
// stripped, suspicious fields fall back, and the result is truncated.
func sanitizeText(s, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return fallback
	}

	runes := []rune(cleaned)
	total := len(runes)

	mojibake := 0
	expected := 0
	for _, r := range runes {
		if _, ok := mojibakeRunes[r]; ok {
			mojibake++
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(textPunctuation, r) {
			expected++
		}
	}
	if float64(mojibake)/float64(total) > mojibakeThreshold {
		return fallback
	}
	if float64(expected)/float64(total) < alphabetThreshold {
		return fallback
	}

	if total > maxTextLen {
		runes = runes[:maxTextLen]
	}
	return string(runes)
}

// sanitizeHref keeps site-relative paths, fragments, and absolute URLs with
// an http/https/mailto scheme; anything else falls back.
func sanitizeHref(href, fallback string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return fallback
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return href
	}

	u, err := url.Parse(href)
	if err != nil {
		return fallback
	}
	switch u.Scheme {
	case "http", "https", "mailto":
		return href
	default:
		return fallback
	}
}
