package dom

import "golang.org/x/net/html"

// ListenerID identifies a registered listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(*Event)
}

// Event is a dispatched DOM event.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	CtrlKey  bool
	MetaKey  bool
	ShiftKey bool
	AltKey   bool
	Button   int // 0 is the primary button

	Key    string // Keyboard key for key events
	Value  string // Input value for input/change events
	State  any    // History state for popstate
	Detail any

	bubbles          bool
	defaultPrevented bool
	stopped          bool
}

// NewEvent returns a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, bubbles: true}
}

// Bubbles reports whether the event propagates to ancestors.
func (e *Event) Bubbles() bool { return e.bubbles }

// NoBubble stops the event from propagating past its target.
func (e *Event) NoBubble() *Event {
	e.bubbles = false
	return e
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops dispatch after the current target's listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// AddEventListener registers fn for events of typ at n.
func (d *Document) AddEventListener(n *html.Node, typ string, fn func(*Event)) ListenerID {
	st := d.nodeState(n, true)
	if st.listeners == nil {
		st.listeners = make(map[string][]listener)
	}
	d.nextListener++
	id := d.nextListener
	st.listeners[typ] = append(st.listeners[typ], listener{id: id, fn: fn})
	d.record(Mutation{Op: OpListen, Target: n, Key: typ})
	return id
}

// RemoveEventListener removes the listener id registered for typ at n.
// It reports whether the listener was found.
func (d *Document) RemoveEventListener(n *html.Node, typ string, id ListenerID) bool {
	st := d.nodeState(n, false)
	if st == nil {
		return false
	}
	ls := st.listeners[typ]
	for i, l := range ls {
		if l.id == id {
			st.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			if len(st.listeners[typ]) == 0 {
				delete(st.listeners, typ)
			}
			d.record(Mutation{Op: OpUnlisten, Target: n, Key: typ})
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners for typ at n. An empty typ
// counts every type.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	st := d.nodeState(n, false)
	if st == nil {
		return 0
	}
	if typ != "" {
		return len(st.listeners[typ])
	}
	total := 0
	for _, ls := range st.listeners {
		total += len(ls)
	}
	return total
}

// Dispatch delivers e to target and, while it bubbles, to each ancestor.
// It returns false when a listener called PreventDefault.
func (d *Document) Dispatch(target *html.Node, e *Event) bool {
	e.Target = target
	for n := target; n != nil; n = n.Parent {
		e.CurrentTarget = n
		if st := d.nodeState(n, false); st != nil {
			// Copy so listeners may add or remove listeners.
			ls := append([]listener(nil), st.listeners[e.Type]...)
			for _, l := range ls {
				l.fn(e)
			}
		}
		if e.stopped || !e.bubbles {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

// Click dispatches a primary-button click at n.
func (d *Document) Click(n *html.Node) bool {
	return d.Dispatch(n, NewEvent("click"))
}

// Input sets the value field of n and dispatches an input event carrying it.
func (d *Document) Input(n *html.Node, value string) bool {
	d.SetField(n, "value", value)
	e := NewEvent("input")
	e.Value = value
	return d.Dispatch(n, e)
}
