package markdown

import (
	"strings"
	"testing"
)

func TestToHTML_Basics(t *testing.T) {
	html, err := ToHTML("# Title\n\nsome **bold** text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("missing bold: %s", html)
	}
}

func TestToHTML_GFMExtensions(t *testing.T) {
	html, err := ToHTML("~~gone~~\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<del>gone</del>") {
		t.Errorf("strikethrough not rendered: %s", html)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("table not rendered: %s", html)
	}
}

func TestToHTML_HardLineBreaks(t *testing.T) {
	html, err := ToHTML("line one\nline two")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<br") {
		t.Errorf("single newline should break: %s", html)
	}
}

func TestToHTML_EscapesRawHTML(t *testing.T) {
	html, err := ToHTML(`<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw html must not pass through: %s", html)
	}
}
