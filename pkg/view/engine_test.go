package view

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestFetch_TeesToWriters(t *testing.T) {
	e := newTestEngine(t,
		WithTemplate("hello", func(t *Template) error {
			_, err := t.WriteString("hi")
			return err
		}),
	)

	var buf bytes.Buffer
	out, err := e.Fetch("hello", nil, &buf)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out != "hi" || buf.String() != "hi" {
		t.Fatalf("expected output in return and writer, got %q / %q", out, buf.String())
	}
}

func TestDisplay_WritesAmbientWriter(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(t,
		WithWriter(&buf),
		WithTemplate("hello", func(t *Template) error {
			_, err := t.WriteString("ambient")
			return err
		}),
	)

	if err := e.Display("hello", nil); err != nil {
		t.Fatalf("display: %v", err)
	}
	if buf.String() != "ambient" {
		t.Fatalf("expected ambient output, got %q", buf.String())
	}
}

func TestRenderWriter_NilFallsBackToAmbient(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(t,
		WithWriter(&buf),
		WithTemplate("hello", func(t *Template) error {
			_, err := t.WriteString("fallback")
			return err
		}),
	)

	if err := e.Render(nil, "hello", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "fallback" {
		t.Fatalf("expected fallback output, got %q", buf.String())
	}
}

func TestFetchWithLayout(t *testing.T) {
	e := newTestEngine(t,
		WithTemplate("body", func(t *Template) error {
			_, err := t.WriteString("B")
			return err
		}),
		WithTemplate("frame", func(t *Template) error {
			return t.Printf("<%v>%s</%v>", t.Get("tag"), t.Section(ContentSection), t.Get("tag"))
		}),
	)

	out, err := e.FetchWithLayout("body", nil, "frame", map[string]any{"tag": "main"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out != "<main>B</main>" {
		t.Fatalf("expected wrapped output, got %q", out)
	}
}

func TestExists(t *testing.T) {
	e := newTestEngine(t,
		WithTemplate("real", func(t *Template) error { return nil }),
	)

	if !e.Exists("real") {
		t.Fatalf("expected registered template to exist")
	}
	if e.Exists("fake") {
		t.Fatalf("expected missing template to not exist")
	}
}

func TestResolvedPath(t *testing.T) {
	missing := &NotFoundError{Name: "fake", Attempted: []string{"first/fake.tpl", "second/fake.tpl"}}
	loader := LoaderFunc(func(name string) (*Source, error) {
		return nil, missing
	})

	e := newTestEngine(t,
		WithLoader(loader),
		WithTemplate("real", func(t *Template) error { return nil }),
	)

	if got := e.ResolvedPath("real"); got != "registered:real" {
		t.Fatalf("expected registered path, got %q", got)
	}
	if got := e.ResolvedPath("fake"); got != "first/fake.tpl" {
		t.Fatalf("expected first attempted path, got %q", got)
	}
	if got := e.ResolvedPath(""); got != "" {
		t.Fatalf("expected empty path for empty name, got %q", got)
	}
}

func TestResolve_LoaderOrderAndAttempts(t *testing.T) {
	first := LoaderFunc(func(name string) (*Source, error) {
		return nil, &NotFoundError{Name: name, Attempted: []string{"a/" + name}}
	})
	second := LoaderFunc(func(name string) (*Source, error) {
		if name != "page" {
			return nil, &NotFoundError{Name: name}
		}
		return &Source{Path: "b/" + name, Body: func(t *Template) error {
			_, err := t.WriteString("from b")
			return err
		}}, nil
	})

	e := newTestEngine(t, WithLoader(first), WithLoader(second))

	out, err := e.Fetch("page", nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out != "from b" {
		t.Fatalf("expected second loader to serve, got %q", out)
	}

	_, err = e.Fetch("gone", nil)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	// second loader reported a miss without candidates of its own
	want := []string{"a/gone"}
	if diff := cmp.Diff(want, notFound.Attempted); diff != "" {
		t.Fatalf("attempted paths mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_LoaderHardErrorPropagates(t *testing.T) {
	boom := errors.New("parse failure")
	loader := LoaderFunc(func(name string) (*Source, error) {
		return nil, boom
	})

	e := newTestEngine(t, WithLoader(loader))

	if _, err := e.Fetch("page", nil); !errors.Is(err, boom) {
		t.Fatalf("expected loader error to propagate, got %v", err)
	}
	if e.Exists("page") {
		t.Fatalf("expected Exists to be false on loader failure")
	}
}

func TestWithDefaultsFile(t *testing.T) {
	fsys := fstest.MapFS{
		"defaults.yml": &fstest.MapFile{Data: []byte(
			"page:\n  title: From File\n  visible: true\nother:\n  count: 3\n",
		)},
	}

	e := newTestEngine(t,
		WithDefaultsFile(fsys, "defaults.yml"),
		WithTemplate("page", func(t *Template) error {
			return t.Printf("%v/%v", t.Get("title"), t.Get("visible"))
		}),
	)

	out, err := e.Fetch("page", nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out != "From File/true" {
		t.Fatalf("expected defaults from file, got %q", out)
	}
}

func TestWithDefaultsFile_ExplicitDefaultsWin(t *testing.T) {
	fsys := fstest.MapFS{
		"defaults.yml": &fstest.MapFile{Data: []byte("page:\n  title: File\n")},
	}

	e := newTestEngine(t,
		WithDefaultsFile(fsys, "defaults.yml"),
		WithDefaults(map[string]map[string]any{
			"page": {"title": "Explicit"},
		}),
		WithTemplate("page", func(t *Template) error {
			return t.Print(t.Get("title"))
		}),
	)

	out, err := e.Fetch("page", nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out != "Explicit" {
		t.Fatalf("expected explicit defaults to win, got %q", out)
	}
}

func TestWithDefaultsFile_MissingFile(t *testing.T) {
	if _, err := New(WithDefaultsFile(fstest.MapFS{}, "nope.yml")); err == nil {
		t.Fatalf("expected error for missing defaults file")
	}
}

func TestRegisterTemplate_Validation(t *testing.T) {
	e := newTestEngine(t)

	if err := e.RegisterTemplate("", func(t *Template) error { return nil }); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := e.RegisterTemplate("x", nil); err == nil {
		t.Fatalf("expected error for nil body")
	}
	if err := e.RegisterTemplate("x", func(t *Template) error { return nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !e.Exists("x") {
		t.Fatalf("expected registered template to resolve")
	}
}
