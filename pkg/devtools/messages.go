package devtools

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/pkg/dom"
)

// Command ops accepted on the websocket.
const (
	OpClick    = "click"
	OpInput    = "input"
	OpNavigate = "navigate"
	OpBack     = "back"
	OpForward  = "forward"
	OpTree     = "tree"
)

// Message types sent on the websocket.
const (
	TypeHello    = "hello"
	TypeMutation = "mutation"
	TypeTree     = "tree"
	TypeError    = "error"
)

// Command is a driver instruction from a client.
type Command struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`    // element id for click and input
	Value string `json:"value,omitempty"` // input value
	Href  string `json:"href,omitempty"`  // navigate target
}

// Message is sent to clients.
type Message struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	Mutation *MutationRecord `json:"mutation,omitempty"`
	Tree     string          `json:"tree,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// MutationRecord is the wire form of a dom.Mutation.
type MutationRecord struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Parent string `json:"parent,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

func record(m dom.Mutation) *MutationRecord {
	return &MutationRecord{
		Op:     m.Op.String(),
		Target: describe(m.Target),
		Parent: describe(m.Parent),
		Key:    m.Key,
		Value:  m.Value,
	}
}

// describe names a node as tag#id, or #text for text nodes.
func describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.ElementNode:
		if id, ok := dom.Attr(n, "id"); ok && id != "" {
			return n.Data + "#" + id
		}
		return n.Data
	case html.DocumentNode:
		return "#document"
	}
	return "#node"
}
