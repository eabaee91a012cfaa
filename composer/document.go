// Package composer is the server half of the rich block editor used to write
// blog posts. It uploads images on the editor's behalf, tracks uploads that
// have not settled yet and turns the editor's saved document into the data a
// post is submitted with.
package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/eringen/pubadmin/model"
)

var logger = log.New("composer")

// Logger returns the package logger so callers can adjust its level.
func Logger() *log.Logger {
	return logger
}

// ErrNoContent is returned by Extract for a document without blocks.
var ErrNoContent = errors.New("Please add some content to your blog post")

// Document is the editor's saved output.
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// Block is one content block. Data is kept raw and decoded per type.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Extract parses the serialized document posted with a blog form.
func Extract(raw string) (Document, error) {
	var doc Document
	if strings.TrimSpace(raw) == "" {
		return doc, ErrNoContent
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("Failed to get editor content: %w", err)
	}
	if len(doc.Blocks) == 0 {
		return doc, ErrNoContent
	}
	return doc, nil
}

// Header is the data of a "header" block.
type Header struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Paragraph is the data of a "paragraph" block.
type Paragraph struct {
	Text string `json:"text"`
}

// List is the data of a "list" block. Items are plain strings in older
// documents and objects with content in newer ones.
type List struct {
	Style string     `json:"style"`
	Items []ListItem `json:"items"`
}

// ListItem is one entry of a List.
type ListItem struct {
	Content string     `json:"content"`
	Items   []ListItem `json:"items,omitempty"`
}

func (li *ListItem) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		li.Content = s
		return nil
	}
	type plain ListItem
	return json.Unmarshal(b, (*plain)(li))
}

// Image is the data of an "image" block.
type Image struct {
	File struct {
		URL string `json:"url"`
	} `json:"file"`
	Caption        string `json:"caption"`
	WithBorder     bool   `json:"withBorder"`
	Stretched      bool   `json:"stretched"`
	WithBackground bool   `json:"withBackground"`
}

// Quote is the data of a "quote" block.
type Quote struct {
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	Alignment string `json:"alignment"`
}

// Table is the data of a "table" block.
type Table struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

// Decode unmarshals the block's data into v.
func (b Block) Decode(v any) error {
	if len(b.Data) == 0 {
		return fmt.Errorf("block %q has no data", b.Type)
	}
	return json.Unmarshal(b.Data, v)
}

// ImageScan lists the images a document references and anything odd about
// them.
type ImageScan struct {
	URLs   []string
	Issues []string
}

// ScanImages collects the URL of every image block. Image blocks without a
// URL, or pointing outside assetHost, are reported as issues. Issues are
// informational and never block a submission.
func ScanImages(doc Document, assetHost string) ImageScan {
	var scan ImageScan
	for i, b := range doc.Blocks {
		if b.Type != "image" {
			continue
		}
		var img Image
		if err := b.Decode(&img); err != nil || strings.TrimSpace(img.File.URL) == "" {
			scan.Issues = append(scan.Issues, fmt.Sprintf("Block %d: Image block missing URL", i+1))
			continue
		}
		scan.URLs = append(scan.URLs, img.File.URL)
		if assetHost != "" && !onHost(img.File.URL, assetHost) {
			scan.Issues = append(scan.Issues, fmt.Sprintf("Block %d: Image may not be stored on %s", i+1, assetHost))
		}
	}
	return scan
}

func onHost(raw, host string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	h := strings.ToLower(u.Hostname())
	host = strings.ToLower(host)
	return h == host || strings.HasSuffix(h, "."+host)
}

// Metadata builds the image summary sent along with a post.
func Metadata(heroURL string, scan ImageScan) model.ImageMetadata {
	md := model.ImageMetadata{
		ContentImageURLs: scan.URLs,
		TotalImages:      len(scan.URLs),
		Issues:           scan.Issues,
	}
	if md.ContentImageURLs == nil {
		md.ContentImageURLs = []string{}
	}
	if heroURL != "" {
		md.HeroImageURL = &heroURL
		md.TotalImages++
	}
	return md
}

// PlainText returns the visible text of the document, used to estimate
// reading time.
func PlainText(doc Document) string {
	var b strings.Builder
	add := func(s string) {
		if s = stripTags(s); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	for _, blk := range doc.Blocks {
		switch blk.Type {
		case "header":
			var h Header
			if blk.Decode(&h) == nil {
				add(h.Text)
			}
		case "paragraph":
			var p Paragraph
			if blk.Decode(&p) == nil {
				add(p.Text)
			}
		case "list":
			var l List
			if blk.Decode(&l) == nil {
				walkItems(l.Items, add)
			}
		case "quote":
			var q Quote
			if blk.Decode(&q) == nil {
				add(q.Text)
			}
		case "table":
			var t Table
			if blk.Decode(&t) == nil {
				for _, row := range t.Content {
					add(strings.Join(row, " "))
				}
			}
		}
	}
	return b.String()
}

func walkItems(items []ListItem, fn func(string)) {
	for _, it := range items {
		fn(it.Content)
		walkItems(it.Items, fn)
	}
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
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
