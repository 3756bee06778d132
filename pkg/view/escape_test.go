package view

import (
	"strings"
	"testing"
)

func TestEscape_NilIsEmpty(t *testing.T) {
	if got := Escape(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestEscape_Markup(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"<a>", "&lt;a&gt;"},
		{`say "hi"`, "say &#34;hi&#34;"},
		{"a & b", "a &amp; b"},
		{42, "42"},
	}

	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Fatalf("Escape(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestTemplateEscape_WithPipeline(t *testing.T) {
	e := newTestEngine(t)
	tmpl := e.Template("page", nil)

	out, err := tmpl.Escape("<a>", "upper")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	if out != "&lt;A&gt;" {
		t.Fatalf("expected pipeline to run before escaping, got %q", out)
	}
}

func TestTemplateEscape_PipelineErrorPropagates(t *testing.T) {
	e := newTestEngine(t)
	tmpl := e.Template("page", nil)

	if _, err := tmpl.Escape("<a>", "missing"); err == nil {
		t.Fatalf("expected unknown pipeline error")
	}
}

func TestSanitize_StripsUnsafeMarkup(t *testing.T) {
	out := Sanitize(`<b>ok</b><script>alert(1)</script>`)
	if strings.Contains(out, "script") {
		t.Fatalf("expected script tag removed, got %q", out)
	}
	if !strings.Contains(out, "<b>ok</b>") {
		t.Fatalf("expected safe markup preserved, got %q", out)
	}
}

func TestSanitize_RegisteredAsPipeFunc(t *testing.T) {
	e := newTestEngine(t)
	tmpl := e.Template("page", nil)

	out, err := tmpl.Apply(`<em>hi</em><iframe src="x"></iframe>`, "sanitize")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if strings.Contains(stringify(out), "iframe") {
		t.Fatalf("expected iframe removed, got %v", out)
	}
}

func TestStringify(t *testing.T) {
	if got := stringify(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
	if got := stringify("s"); got != "s" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := stringify(3.5); got != "3.5" {
		t.Fatalf("expected %q, got %q", "3.5", got)
	}
}
