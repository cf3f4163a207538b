package dom

import "testing"

func newTestWindow(t *testing.T) *Window {
	t.Helper()
	w, err := NewWindow(NewDocument(), "http://localhost/?/")
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}
	return w
}

func TestHistoryPushAndBack(t *testing.T) {
	w := newTestWindow(t)
	h := w.History()

	var popped []any
	w.AddEventListener("popstate", func(e *Event) { popped = append(popped, e.State) })

	if err := h.ReplaceState(map[string]any{"scrollTop": 120}, ""); err != nil {
		t.Fatal(err)
	}
	if err := h.PushState(nil, "?/posts/42&tab=1"); err != nil {
		t.Fatal(err)
	}
	if got := w.Location().RawQuery; got != "/posts/42&tab=1" {
		t.Errorf("RawQuery = %q", got)
	}
	if len(popped) != 0 {
		t.Error("PushState dispatched popstate")
	}

	if !h.Back() {
		t.Fatal("Back() = false")
	}
	if w.Href() != "http://localhost/?/" {
		t.Errorf("Href() = %q", w.Href())
	}
	if len(popped) != 1 {
		t.Fatalf("popstate dispatched %d times", len(popped))
	}
	state, _ := popped[0].(map[string]any)
	if state["scrollTop"] != 120 {
		t.Errorf("popstate state = %v", popped[0])
	}

	if h.Back() {
		t.Error("Back() past the first entry = true")
	}
	if !h.Forward() || h.Index() != 1 {
		t.Error("Forward() did not return to the pushed entry")
	}
}

func TestPushTruncatesForward(t *testing.T) {
	w := newTestWindow(t)
	h := w.History()
	_ = h.PushState(nil, "?/a")
	_ = h.PushState(nil, "?/b")
	h.Back()
	_ = h.PushState(nil, "?/c")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Forward() {
		t.Error("Forward() after push = true")
	}
}

func TestScrollAndFocus(t *testing.T) {
	w := newTestWindow(t)
	w.ScrollTo(10, 200)
	if x, y := w.Scroll(); x != 10 || y != 200 {
		t.Errorf("Scroll() = %d, %d", x, y)
	}

	in := w.Document().CreateElement("input")
	w.Focus(in)
	if w.ActiveElement() != in {
		t.Error("ActiveElement() is not the focused input")
	}
	w.Blur()
	if w.ActiveElement() != w.Document().Body() {
		t.Error("ActiveElement() after Blur() is not body")
	}
}

func TestWindowListenerRemoval(t *testing.T) {
	w := newTestWindow(t)
	calls := 0
	id := w.AddEventListener("popstate", func(*Event) { calls++ })
	w.RemoveEventListener("popstate", id)
	_ = w.History().PushState(nil, "?/x")
	w.History().Back()
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}
