package dom

import "testing"

func TestHasField(t *testing.T) {
	d := NewDocument()
	tests := []struct {
		tag   string
		field string
		want  bool
	}{
		{"div", "id", true},
		{"div", "className", true},
		{"div", "value", false},
		{"input", "value", true},
		{"input", "checked", true},
		{"input", "list", true},
		{"a", "href", true},
		{"span", "href", false},
		{"label", "htmlFor", true},
		{"div", "data-x", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"."+tt.field, func(t *testing.T) {
			n := d.CreateElement(tt.tag)
			if got := d.HasField(n, tt.field); got != tt.want {
				t.Errorf("HasField(%s, %s) = %v, want %v", tt.tag, tt.field, got, tt.want)
			}
		})
	}
}

func TestSetFieldReflection(t *testing.T) {
	d := NewDocument()

	a := d.CreateElement("a")
	d.SetField(a, "href", "?/posts")
	d.SetField(a, "className", "nav")
	if v, _ := Attr(a, "href"); v != "?/posts" {
		t.Errorf("href attr = %q", v)
	}
	if v, _ := Attr(a, "class"); v != "nav" {
		t.Errorf("class attr = %q", v)
	}

	in := d.CreateElement("input")
	d.SetField(in, "disabled", true)
	if _, ok := Attr(in, "disabled"); !ok {
		t.Error("disabled attr missing")
	}
	d.SetField(in, "disabled", false)
	if _, ok := Attr(in, "disabled"); ok {
		t.Error("disabled attr still present")
	}

	d.SetField(in, "value", "typed")
	if _, ok := Attr(in, "value"); ok {
		t.Error("value field should not reflect")
	}
	if d.Field(in, "value") != "typed" {
		t.Errorf("Field(value) = %v", d.Field(in, "value"))
	}

	d.SetField(in, "value", nil)
	if d.Field(in, "value") != "" {
		t.Errorf("nil field = %v, want empty string", d.Field(in, "value"))
	}
}

func TestSetFieldMarkup(t *testing.T) {
	d := NewDocument()
	div := d.CreateElement("div")
	d.AppendChild(div, d.CreateText("old"))

	d.SetField(div, "innerHTML", "<b>bold</b> text")
	got, _ := InnerHTML(div)
	if got != "<b>bold</b> text" {
		t.Errorf("InnerHTML = %q", got)
	}

	d.SetField(div, "textContent", "<plain>")
	got, _ = InnerHTML(div)
	if got != "&lt;plain&gt;" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestExpandoField(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("div")
	d.SetField(n, "payload", 42)
	if d.Field(n, "payload") != 42 {
		t.Errorf("Field(payload) = %v", d.Field(n, "payload"))
	}
	if len(n.Attr) != 0 {
		t.Errorf("expando reflected to %v", n.Attr)
	}
	if d.Stats().Count(OpSetField) != 1 {
		t.Errorf("Count(SetField) = %d", d.Stats().Count(OpSetField))
	}
}
