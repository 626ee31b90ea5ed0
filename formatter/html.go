package formatter

import "strings"

// BuildHTML renders the info-window fragment for an inspection: one line per
// project, linked to its document heading when it has one.
func (rb *responseBuilder) BuildHTML(res *InspectResponse) []byte {
	var b strings.Builder
	for _, p := range res.Projects {
		if p.AnchorID != "" {
			b.WriteString(`<a href="#`)
			b.WriteString(htmlEscape(p.AnchorID))
			b.WriteString(`">`)
			b.WriteString(htmlEscape(p.Title))
			b.WriteString("</a>")
		} else {
			b.WriteString(htmlEscape(p.Title))
		}
		b.WriteString(" <br/>\n")
	}
	return []byte(b.String())
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
