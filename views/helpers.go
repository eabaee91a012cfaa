package views

import (
	"net/url"
	"strings"
	"time"

	"github.com/eringen/pubadmin/model"
)

const (
	blogsPath    = "/admin/blogs/"
	booksPath    = "/admin/books/"
	examPrepPath = "/admin/exam-prep/"
)

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JoinTags formats a slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// StatusClass returns the badge class for a post status.
func StatusClass(status string) string {
	if status == model.StatusPublished {
		return "badge badge-published"
	}
	return "badge badge-draft"
}

// FormatDate renders t as 2 Jan 2006, or a dash for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2 Jan 2006")
}

func postURL(base, slug string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/blog/" + url.PathEscape(slug) + "/"
}

func navClass(active, section string) string {
	if active == section {
		return "nav-link active"
	}
	return "nav-link"
}

// itemPath builds the URL of one item below section, optionally followed by
// an action segment.
func itemPath(section, id, action string) string {
	p := section + url.PathEscape(id) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func nonBlank(vals []string) []string {
	var out []string
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
