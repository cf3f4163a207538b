package dom

import "testing"

func TestDispatchBubbles(t *testing.T) {
	d := NewDocument()
	outer := d.CreateElement("div")
	inner := d.CreateElement("button")
	d.AppendChild(d.Body(), outer)
	d.AppendChild(outer, inner)

	var order []string
	d.AddEventListener(outer, "click", func(e *Event) {
		order = append(order, "outer")
		if e.Target != inner || e.CurrentTarget != outer {
			t.Error("wrong target or currentTarget")
		}
	})
	d.AddEventListener(inner, "click", func(e *Event) { order = append(order, "inner") })
	d.AddEventListener(inner, "input", func(e *Event) { order = append(order, "input") })

	if !d.Click(inner) {
		t.Error("Click() = false without PreventDefault")
	}
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("order = %v", order)
	}
}

func TestDispatchStopAndPrevent(t *testing.T) {
	d := NewDocument()
	outer := d.CreateElement("div")
	inner := d.CreateElement("a")
	d.AppendChild(outer, inner)

	outerCalled := false
	d.AddEventListener(outer, "click", func(e *Event) { outerCalled = true })
	d.AddEventListener(inner, "click", func(e *Event) {
		e.PreventDefault()
		e.StopPropagation()
	})

	if d.Click(inner) {
		t.Error("Click() = true after PreventDefault")
	}
	if outerCalled {
		t.Error("event propagated after StopPropagation")
	}

	ok := d.Dispatch(outer, NewEvent("focus").NoBubble())
	if !ok {
		t.Error("non-bubbling dispatch reported prevented")
	}
}

func TestRemoveEventListener(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("button")
	calls := 0
	id := d.AddEventListener(n, "click", func(*Event) { calls++ })
	d.AddEventListener(n, "click", func(*Event) { calls += 10 })

	if !d.RemoveEventListener(n, "click", id) {
		t.Fatal("RemoveEventListener() = false")
	}
	if d.RemoveEventListener(n, "click", id) {
		t.Error("second RemoveEventListener() = true")
	}
	d.Click(n)
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
	if d.ListenerCount(n, "click") != 1 {
		t.Errorf("ListenerCount = %d, want 1", d.ListenerCount(n, "click"))
	}
}

func TestRelease(t *testing.T) {
	d := NewDocument()
	parent := d.CreateElement("div")
	child := d.CreateElement("span")
	d.AppendChild(parent, child)
	d.AddEventListener(parent, "click", func(*Event) {})
	d.AddEventListener(child, "click", func(*Event) {})
	d.AddEventListener(child, "input", func(*Event) {})
	d.SetField(child, "payload", 1)

	before := d.Stats()
	d.Release(parent)
	if got := d.Stats().Sub(before).Count(OpUnlisten); got != 3 {
		t.Errorf("released %d listeners, want 3", got)
	}
	if d.ListenerCount(child, "") != 0 || d.Field(child, "payload") != nil {
		t.Error("state survived Release")
	}
}

func TestInput(t *testing.T) {
	d := NewDocument()
	in := d.CreateElement("input")
	var got string
	d.AddEventListener(in, "input", func(e *Event) { got = e.Value })
	d.Input(in, "hello")
	if got != "hello" || d.Field(in, "value") != "hello" {
		t.Errorf("got %q, field %v", got, d.Field(in, "value"))
	}
}
