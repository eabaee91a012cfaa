package controller

import "strings"

// SplitList splits a comma-separated form value into trimmed, non-empty
// items.
func SplitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// JoinList joins items for display in a single form field.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ReadingTime estimates minutes to read text at 200 words per minute,
// never less than one.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	m := (words + 199) / 200
	if m < 1 {
		m = 1
	}
	return m
}
