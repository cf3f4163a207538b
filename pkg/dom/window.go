package dom

import (
	"fmt"
	"net/url"

	"golang.org/x/net/html"
)

// Window holds the browsing state around a document: location, history,
// scroll position, focus and window-level listeners.
type Window struct {
	doc      *Document
	location *url.URL
	history  *History

	scrollX, scrollY int
	active           *html.Node

	listeners    map[string][]listener
	nextListener ListenerID
}

// NewWindow returns a window showing doc at rawURL.
func NewWindow(doc *Document, rawURL string) (*Window, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("dom: parse window url: %w", err)
	}
	w := &Window{
		doc:       doc,
		location:  u,
		listeners: make(map[string][]listener),
	}
	w.history = &History{win: w, entries: []historyEntry{{url: u}}}
	return w, nil
}

// Document returns the window's document.
func (w *Window) Document() *Document { return w.doc }

// Location returns a copy of the current URL.
func (w *Window) Location() *url.URL {
	u := *w.location
	return &u
}

// Href returns the current URL as a string.
func (w *Window) Href() string { return w.location.String() }

// History returns the session history.
func (w *Window) History() *History { return w.history }

// ScrollTo sets the window scroll position.
func (w *Window) ScrollTo(x, y int) {
	w.scrollX, w.scrollY = x, y
}

// Scroll returns the window scroll position.
func (w *Window) Scroll() (x, y int) {
	return w.scrollX, w.scrollY
}

// Focus makes n the active element.
func (w *Window) Focus(n *html.Node) { w.active = n }

// ActiveElement returns the focused element, or the body when nothing is
// focused.
func (w *Window) ActiveElement() *html.Node {
	if w.active == nil {
		return w.doc.body
	}
	return w.active
}

// Blur removes focus from the active element.
func (w *Window) Blur() { w.active = nil }

// AddEventListener registers a window-level listener.
func (w *Window) AddEventListener(typ string, fn func(*Event)) ListenerID {
	w.nextListener++
	id := w.nextListener
	w.listeners[typ] = append(w.listeners[typ], listener{id: id, fn: fn})
	return id
}

// RemoveEventListener removes a window-level listener.
func (w *Window) RemoveEventListener(typ string, id ListenerID) {
	ls := w.listeners[typ]
	for i, l := range ls {
		if l.id == id {
			w.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch delivers e to the window-level listeners for its type.
func (w *Window) Dispatch(e *Event) bool {
	for _, l := range append([]listener(nil), w.listeners[e.Type]...) {
		l.fn(e)
		if e.stopped {
			break
		}
	}
	return !e.defaultPrevented
}

func (w *Window) resolve(href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("dom: parse url %q: %w", href, err)
	}
	return w.location.ResolveReference(ref), nil
}

type historyEntry struct {
	url   *url.URL
	state map[string]any
}

// History is the window's session history.
type History struct {
	win     *Window
	entries []historyEntry
	index   int
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the position of the current entry.
func (h *History) Index() int { return h.index }

// State returns the state of the current entry. The map is the stored one;
// callers must not modify it.
func (h *History) State() map[string]any {
	return h.entries[h.index].state
}

// PushState adds an entry after the current one, discarding forward
// entries. It does not dispatch popstate.
func (h *History) PushState(state map[string]any, href string) error {
	u, err := h.win.resolve(href)
	if err != nil {
		return err
	}
	h.entries = append(h.entries[:h.index+1], historyEntry{url: u, state: state})
	h.index++
	h.win.location = u
	return nil
}

// ReplaceState replaces the current entry's state and, when href is not
// empty, its URL.
func (h *History) ReplaceState(state map[string]any, href string) error {
	u := h.win.location
	if href != "" {
		var err error
		if u, err = h.win.resolve(href); err != nil {
			return err
		}
	}
	h.entries[h.index] = historyEntry{url: u, state: state}
	h.win.location = u
	return nil
}

// Back moves one entry back.
func (h *History) Back() bool { return h.Go(-1) }

// Forward moves one entry forward.
func (h *History) Forward() bool { return h.Go(1) }

// Go moves delta entries and dispatches popstate on the window. It reports
// false, without dispatching, when the target entry does not exist.
func (h *History) Go(delta int) bool {
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return false
	}
	h.index = next
	h.win.location = h.entries[next].url

	e := NewEvent("popstate").NoBubble()
	e.State = h.entries[next].state
	h.win.Dispatch(e)
	return true
}
