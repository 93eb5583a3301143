package mail

import (
	"strings"
	"testing"
	"time"
)

func TestRenderContactEscapesAndBreaksLines(t *testing.T) {
	html, err := renderContact("notify", ContactData{
		Name:       "Ada <script>",
		Email:      "ada@example.com",
		Subject:    "Store rebuild",
		Message:    "line one\nline two",
		IP:         "10.0.0.1",
		ReceivedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected name to be escaped")
	}
	if !strings.Contains(html, "line one<br>line two") {
		t.Fatalf("expected newlines rendered as <br>, got %s", html)
	}
	if !strings.Contains(html, "10.0.0.1") {
		t.Fatalf("expected ip in notification")
	}
}

func TestRenderAutoReplyIncludesSiteLink(t *testing.T) {
	html, err := renderContact("reply", ContactData{
		Name:      "Ada",
		Email:     "ada@example.com",
		Subject:   "Store rebuild",
		Message:   "hello there",
		OwnerName: "Site Owner",
		SiteURL:   "https://portfolio.example.com",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `href="https://portfolio.example.com"`) {
		t.Fatalf("expected portfolio link, got %s", html)
	}
	if !strings.Contains(html, "Hi Ada,") {
		t.Fatalf("expected greeting")
	}
}

func TestSendDisabledIsNoop(t *testing.T) {
	s := New(Config{Enable: false})
	if err := s.SendContactAutoReply(ContactData{Email: "ada@example.com", Subject: "x"}); err != nil {
		t.Fatalf("expected disabled sender to skip, got %v", err)
	}
}
