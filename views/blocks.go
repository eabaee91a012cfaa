package views

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/eringen/pubadmin/composer"
)

// Inline markup the editor produces and the preview keeps.
var (
	reInlineTag = regexp.MustCompile(`&lt;(/?)(b|i|u|s|strong|em|mark|code)&gt;`)
	reBreak     = regexp.MustCompile(`&lt;br\s*/?&gt;`)
	reAnchor    = regexp.MustCompile(`&lt;a href=&#34;(.*?)&#34;.*?&gt;`)
	reAnchorEnd = regexp.MustCompile(`&lt;/a&gt;`)
)

// blocksHTML renders a block document as HTML for the preview page. Text is
// escaped here, so the result is written unescaped with templ.Raw.
func blocksHTML(doc composer.Document) string {
	var buf bytes.Buffer
	renderBlocks(&buf, doc)
	return buf.String()
}

func renderBlocks(buf *bytes.Buffer, doc composer.Document) {
	imageCount := 0
	for _, b := range doc.Blocks {
		switch b.Type {
		case "header":
			var h composer.Header
			if b.Decode(&h) != nil {
				continue
			}
			level := h.Level
			if level < 1 || level > 6 {
				level = 2
			}
			tag := "h" + strconv.Itoa(level)
			buf.WriteString("<" + tag + ">" + formatInline(h.Text) + "</" + tag + ">")
		case "paragraph":
			var p composer.Paragraph
			if b.Decode(&p) != nil {
				continue
			}
			buf.WriteString("<p>" + formatInline(p.Text) + "</p>")
		case "list":
			var l composer.List
			if b.Decode(&l) != nil {
				continue
			}
			renderList(buf, l.Style == "ordered", l.Items)
		case "quote":
			var q composer.Quote
			if b.Decode(&q) != nil {
				continue
			}
			buf.WriteString("<blockquote><p>" + formatInline(q.Text) + "</p>")
			if q.Caption != "" {
				buf.WriteString("<cite>" + formatInline(q.Caption) + "</cite>")
			}
			buf.WriteString("</blockquote>")
		case "image":
			var img composer.Image
			if b.Decode(&img) != nil {
				continue
			}
			src := safeURL(img.File.URL)
			if src == "" {
				continue
			}
			imageCount++
			loadAttr := `loading="lazy"`
			if imageCount == 1 {
				loadAttr = `fetchpriority="high"`
			}
			alt := html.EscapeString(stripMarkup(img.Caption))
			buf.WriteString(`<figure><img ` + loadAttr + ` src="` + src + `" alt="` + alt + `" decoding="async"/>`)
			if img.Caption != "" {
				buf.WriteString("<figcaption>" + formatInline(img.Caption) + "</figcaption>")
			}
			buf.WriteString("</figure>")
		case "table":
			var t composer.Table
			if b.Decode(&t) != nil {
				continue
			}
			renderTable(buf, t)
		default:
			buf.WriteString(`<div class="unknown-block">Unsupported block: ` + html.EscapeString(b.Type) + `</div>`)
		}
	}
}

func renderList(buf *bytes.Buffer, ordered bool, items []composer.ListItem) {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	buf.WriteString("<" + tag + ">")
	for _, it := range items {
		buf.WriteString("<li>" + formatInline(it.Content))
		if len(it.Items) > 0 {
			renderList(buf, ordered, it.Items)
		}
		buf.WriteString("</li>")
	}
	buf.WriteString("</" + tag + ">")
}

func renderTable(buf *bytes.Buffer, t composer.Table) {
	buf.WriteString("<table>")
	rows := t.Content
	if t.WithHeadings && len(rows) > 0 {
		buf.WriteString("<thead><tr>")
		for _, cell := range rows[0] {
			buf.WriteString("<th>" + formatInline(cell) + "</th>")
		}
		buf.WriteString("</tr></thead>")
		rows = rows[1:]
	}
	buf.WriteString("<tbody>")
	for _, row := range rows {
		buf.WriteString("<tr>")
		for _, cell := range row {
			buf.WriteString("<td>" + formatInline(cell) + "</td>")
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</tbody></table>")
}

// formatInline escapes s and then restores the small set of inline tags the
// editor emits. Links keep only safe hrefs.
func formatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reAnchor.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reAnchor.FindStringSubmatch(m)
		href := safeURL(match[1])
		if href == "" {
			return "<a>"
		}
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">`
	})
	escaped = reAnchorEnd.ReplaceAllString(escaped, "</a>")
	escaped = reBreak.ReplaceAllString(escaped, "<br>")
	escaped = reInlineTag.ReplaceAllString(escaped, "<$1$2>")
	return strings.ReplaceAll(escaped, "&amp;nbsp;", "&nbsp;")
}

func stripMarkup(s string) string {
	var b strings.Builder
	in := false
	for _, r := range html.UnescapeString(s) {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func safeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
