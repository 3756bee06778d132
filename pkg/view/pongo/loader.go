package pongo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-views/pkg/view"
)

// Option configures the loader before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
}

// WithBaseDir configures the loader to read templates from a directory on
// disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the loader to read templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tpl" extension appended to names
// that do not already carry it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Loader resolves template names against a pongo2 template set and wraps the
// compiled templates as view bodies.
type Loader struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template

	baseDir string
	fsys    fs.FS
	ext     string
}

// Ensure Loader implements the view.Loader contract.
var _ view.Loader = (*Loader)(nil)

// New constructs a Loader using the provided configuration options.
func New(options ...Option) (*Loader, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("pongo: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	return &Loader{
		set:       pongo2.NewSet("views", loaders...),
		templates: make(map[string]*pongo2.Template),
		baseDir:   cfg.baseDir,
		fsys:      cfg.templates,
		ext:       cfg.extension,
	}, nil
}

// Load resolves a template name to a compiled body. A miss returns a
// *view.NotFoundError listing every candidate path; template syntax errors
// propagate as-is.
func (l *Loader) Load(name string) (*view.Source, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("pongo: template name is required")
	}

	path := name
	if !strings.HasSuffix(path, l.ext) {
		path += l.ext
	}

	var attempted []string
	found := false
	resolved := path
	if l.baseDir != "" {
		full := filepath.Join(l.baseDir, path)
		attempted = append(attempted, full)
		if _, err := os.Stat(full); err == nil {
			found = true
			resolved = full
		}
	}
	if !found && l.fsys != nil {
		attempted = append(attempted, path)
		if _, err := fs.Stat(l.fsys, path); err == nil {
			found = true
			resolved = path
		}
	}
	if !found {
		return nil, &view.NotFoundError{Name: name, Attempted: attempted}
	}

	tmpl, err := l.template(path)
	if err != nil {
		return nil, err
	}

	body := func(t *view.Template) error {
		out, err := tmpl.Execute(pongo2.Context(t.Data()))
		if err != nil {
			return fmt.Errorf("pongo: execute template %q: %w", path, err)
		}
		_, err = t.WriteString(out)
		return err
	}

	return &view.Source{Path: resolved, Body: body}, nil
}

func (l *Loader) template(path string) (*pongo2.Template, error) {
	l.mu.RLock()
	if tmpl, ok := l.templates[path]; ok {
		l.mu.RUnlock()
		return tmpl, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if tmpl, ok := l.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := l.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	l.templates[path] = tmpl
	return tmpl, nil
}
