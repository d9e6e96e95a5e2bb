// Package render turns entry and email bodies into safe HTML or plain text.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// Renderer is safe for concurrent use.
type Renderer struct {
	markdown goldmark.Markdown
	ugc      *bluemonday.Policy
	strict   *bluemonday.Policy
}

// New builds a renderer with GFM markdown and a user generated content policy.
func New() *Renderer {
	ugc := bluemonday.UGCPolicy()
	ugc.RequireNoReferrerOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		ugc:      ugc,
		strict:   bluemonday.StrictPolicy(),
	}
}

// HTML renders body according to format. Output is always sanitised.
func (r *Renderer) HTML(format domain.ContentFormat, body string) string {
	switch format {
	case domain.FormatNone:
		return ""
	case domain.FormatMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(body), &buf); err != nil {
			return r.plainHTML(body)
		}
		return r.ugc.Sanitize(buf.String())
	case domain.FormatHTML:
		return r.ugc.Sanitize(body)
	default:
		return r.plainHTML(body)
	}
}

// Text renders body for a terminal: markup is removed and entities decoded.
func (r *Renderer) Text(format domain.ContentFormat, body string) string {
	switch format {
	case domain.FormatNone:
		return ""
	case domain.FormatMarkdown, domain.FormatHTML:
		return r.stripHTML(r.HTML(format, body))
	default:
		return strings.TrimSpace(body)
	}
}

// EmailBody renders the body of a mailbox message as text.
func (r *Renderer) EmailBody(email domain.EmailDetail) string {
	if email.BodyType == domain.EmailBodyHTML {
		return r.Text(domain.FormatHTML, email.Body)
	}
	return r.Text(domain.FormatPlainText, email.Body)
}

func (r *Renderer) plainHTML(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	escaped := html.EscapeString(body)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// stripHTML keeps block boundaries as line breaks, drops tags and blank lines.
func (r *Renderer) stripHTML(s string) string {
	text := html.UnescapeString(r.strict.Sanitize(blockBreaks.Replace(s)))

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

var blockBreaks = strings.NewReplacer(
	"<br>", "\n", "<br/>", "\n", "<br />", "\n",
	"</p>", "</p>\n", "</li>", "</li>\n", "</div>", "</div>\n",
	"</h1>", "</h1>\n", "</h2>", "</h2>\n", "</h3>", "</h3>\n",
	"</pre>", "</pre>\n", "</tr>", "</tr>\n",
)
