// Package views renders the console's pages as templ components. The
// *_templ.go files are generated from the .templ sources with templ generate.
package views

//go:generate templ generate

// Page carries what every page needs besides its own data.
type Page struct {
	Title    string
	Section  string // nav entry to highlight
	Username string
	CSRF     string
	Flash    string // success notice
	Error    string // message of the last failed operation
}
