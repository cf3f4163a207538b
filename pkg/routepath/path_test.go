package routepath

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantPath  string
		wantQuery url.Values
	}{
		{"empty", "", "", url.Values{}},
		{"root", "/", "/", url.Values{}},
		{"path only", "/posts/42", "/posts/42", url.Values{}},
		{"with params", "/posts/42&tab=1&q=a+b", "/posts/42", url.Values{"tab": {"1"}, "q": {"a b"}}},
		{"repeated", "/x&t=1&t=2", "/x", url.Values{"t": {"1", "2"}}},
		{"encoded path kept", "/files/a%20b&x=", "/files/a%20b", url.Values{"x": {""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, query := FromQuery(tt.raw)
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if !reflect.DeepEqual(query, tt.wantQuery) {
				t.Errorf("query = %v, want %v", query, tt.wantQuery)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		name     string
		segment  string
		catchAll bool
		want     string
		wantErr  error
	}{
		{"plain", "hello", false, "hello", nil},
		{"space", "a%20b", false, "a b", nil},
		{"unicode", "%E2%9C%93", false, "✓", nil},
		{"encoded slash", "a%2Fb", false, "", ErrEncodedSlashInSegment},
		{"encoded slash catch-all", "a%2Fb", true, "a/b", nil},
		{"catch-all path", "a/b/c", true, "a/b/c", nil},
		{"truncated escape", "abc%2", false, "", ErrInvalidPercentEscape},
		{"bad hex", "%zz", false, "", ErrInvalidPercentEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSegment(tt.segment, tt.catchAll)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInternal(t *testing.T) {
	prefixes := []string{"?/", "/?/"}
	tests := []struct {
		href string
		want bool
	}{
		{"?/posts", true},
		{"/?/posts", true},
		{"?/", true},
		{"/posts", false},
		{"https://example.com/?/x", false},
		{"", false},
		{"#top", false},
	}
	for _, tt := range tests {
		if got := IsInternal(tt.href, prefixes); got != tt.want {
			t.Errorf("IsInternal(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}
