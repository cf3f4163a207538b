package markup

import "github.com/vango-dev/minidom/pkg/dom"

// CSS appends a style rule to the document's shared style sheet. format is
// split at each %v like Template, and values are inserted verbatim.
func CSS(doc *dom.Document, format string, values ...any) {
	doc.AddStyle(Raw(Split(format), values...))
}
