package htmlsafe

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Hello world  ", "Hello world"},
		{"tags stripped", "<b>Hi</b> <script>alert(1)</script>there", "Hi there"},
		{"ampersand kept", "Tom & Jerry", "Tom & Jerry"},
		{"apostrophe kept", "I'd like a quote", "I'd like a quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUGCDropsScripts(t *testing.T) {
	out := UGC(`<p onclick="x()">ok</p><script>alert(1)</script><a href="javascript:alert(1)">bad</a>`)
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") || strings.Contains(out, "javascript:") {
		t.Fatalf("unsafe markup survived: %s", out)
	}
	if !strings.Contains(out, "<p>ok</p>") {
		t.Fatalf("expected paragraph kept, got %s", out)
	}
}
