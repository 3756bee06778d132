package view

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	loaders      []Loader
	templates    map[string]Body
	extensions   map[string]ExtensionFunc
	pipes        map[string]PipeFunc
	defaults     map[string]map[string]any
	defaultsFS   fs.FS
	defaultsPath string
	out          io.Writer
}

// WithLoader appends a template loader. Loaders are consulted in
// registration order after the registered-body table.
func WithLoader(loader Loader) Option {
	return func(cfg *config) {
		if loader == nil {
			return
		}
		cfg.loaders = append(cfg.loaders, loader)
	}
}

// WithTemplate registers a named host-code body.
func WithTemplate(name string, body Body) Option {
	return func(cfg *config) {
		if name == "" || body == nil {
			return
		}
		if cfg.templates == nil {
			cfg.templates = make(map[string]Body)
		}
		cfg.templates[name] = body
	}
}

// WithExtension registers a named helper for dynamic dispatch and pipelines.
func WithExtension(name string, fn ExtensionFunc) Option {
	return func(cfg *config) {
		if name == "" || fn == nil {
			return
		}
		if cfg.extensions == nil {
			cfg.extensions = make(map[string]ExtensionFunc)
		}
		cfg.extensions[name] = fn
	}
}

// WithPipeFunc registers a plain pipeline function, overriding a built-in of
// the same name.
func WithPipeFunc(name string, fn PipeFunc) Option {
	return func(cfg *config) {
		if name == "" || fn == nil {
			return
		}
		if cfg.pipes == nil {
			cfg.pipes = make(map[string]PipeFunc)
		}
		cfg.pipes[name] = fn
	}
}

// WithDefaults seeds per-template default data, merged into every instance of
// the named template at construction time.
func WithDefaults(defaults map[string]map[string]any) Option {
	return func(cfg *config) {
		if len(defaults) == 0 {
			return
		}
		if cfg.defaults == nil {
			cfg.defaults = make(map[string]map[string]any, len(defaults))
		}
		for name, data := range defaults {
			cfg.defaults[name] = data
		}
	}
}

// WithDefaultsFile loads per-template default data from a YAML document
// mapping template names to data maps. Explicit WithDefaults entries win on
// conflict.
func WithDefaultsFile(fsys fs.FS, path string) Option {
	return func(cfg *config) {
		cfg.defaultsFS = fsys
		cfg.defaultsPath = path
	}
}

// WithWriter sets the ambient output writer used by Display and by Render
// when no writer is supplied. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(cfg *config) {
		if w != nil {
			cfg.out = w
		}
	}
}

// Engine owns template resolution, the extension registry, per-template
// default data, and the shared capture stack.
type Engine struct {
	mu         sync.RWMutex
	templates  map[string]Body
	loaders    []Loader
	extensions *ExtensionRegistry
	pipes      map[string]PipeFunc
	defaults   map[string]map[string]any
	stack      *CaptureStack
	out        io.Writer
}

// New constructs an Engine from the provided options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	e := &Engine{
		templates:  make(map[string]Body, len(cfg.templates)),
		loaders:    cfg.loaders,
		extensions: NewExtensionRegistry(),
		pipes:      builtinPipeFuncs(),
		defaults:   make(map[string]map[string]any),
		stack:      NewCaptureStack(),
		out:        cfg.out,
	}
	if e.out == nil {
		e.out = os.Stdout
	}

	for name, body := range cfg.templates {
		e.templates[name] = body
	}
	for name, fn := range cfg.extensions {
		if err := e.extensions.Register(name, fn); err != nil {
			return nil, err
		}
	}
	for name, fn := range cfg.pipes {
		e.pipes[name] = fn
	}

	if cfg.defaultsPath != "" {
		loaded, err := loadDefaultsFile(cfg.defaultsFS, cfg.defaultsPath)
		if err != nil {
			return nil, err
		}
		for name, data := range loaded {
			e.defaults[name] = data
		}
	}
	for name, data := range cfg.defaults {
		e.defaults[name] = data
	}

	return e, nil
}

// RegisterTemplate adds or replaces a named host-code body after
// construction.
func (e *Engine) RegisterTemplate(name string, body Body) error {
	if name == "" {
		return errors.New("view: template name is required")
	}
	if body == nil {
		return fmt.Errorf("view: template %q body is nil", name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[name] = body
	return nil
}

// Extensions exposes the engine's extension registry.
func (e *Engine) Extensions() *ExtensionRegistry {
	return e.extensions
}

// RegisterPipeFunc adds or replaces a named pipeline function.
func (e *Engine) RegisterPipeFunc(name string, fn PipeFunc) error {
	if name == "" {
		return errors.New("view: pipe function name is required")
	}
	if fn == nil {
		return fmt.Errorf("view: pipe function %q is nil", name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipes[name] = fn
	return nil
}

func (e *Engine) pipe(name string) (PipeFunc, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.pipes[name]
	return fn, ok
}

// Template instantiates a render target for name, seeding the engine's
// default data for that name and then the caller-supplied data. Existence is
// not checked here; resolution happens on the first Render.
func (e *Engine) Template(name string, data map[string]any) *Template {
	t := &Template{
		engine:   e,
		name:     name,
		data:     make(map[string]any),
		sections: make(map[string]string),
	}
	e.mu.RLock()
	defaults := e.defaults[name]
	e.mu.RUnlock()
	for key, value := range defaults {
		t.data[key] = value
	}
	for key, value := range data {
		t.data[key] = value
	}
	return t
}

// Fetch instantiates and renders a named template. Any supplied writers also
// receive the rendered output.
func (e *Engine) Fetch(name string, data map[string]any, out ...io.Writer) (string, error) {
	return e.FetchWithLayout(name, data, "", nil, out...)
}

// FetchWithLayout is Fetch with a single wrapping layout. An empty layout
// name renders the template bare.
func (e *Engine) FetchWithLayout(name string, data map[string]any, layout string, layoutData map[string]any, out ...io.Writer) (string, error) {
	t := e.Template(name, data)
	if layout != "" {
		t.SetLayout(layout, layoutData)
	}
	rendered, err := t.Render(nil)
	if err != nil {
		return "", err
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// Display renders a named template to the engine's ambient writer.
func (e *Engine) Display(name string, data map[string]any) error {
	_, err := e.Fetch(name, data, e.out)
	return err
}

// Render writes the rendered template to w, falling back to the ambient
// writer when w is nil.
func (e *Engine) Render(w io.Writer, name string, data map[string]any) error {
	if w == nil {
		w = e.out
	}
	_, err := e.Fetch(name, data, w)
	return err
}

// Exists reports whether name resolves to a template. This is the one place
// a resolution failure is swallowed instead of propagated.
func (e *Engine) Exists(name string) bool {
	_, err := e.resolve(name)
	return err == nil
}

// ResolvedPath returns the location name resolves to, the first attempted
// path when resolution fails, or "" when nothing was attempted.
func (e *Engine) ResolvedPath(name string) string {
	src, err := e.resolve(name)
	if err == nil {
		return src.Path
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) && len(notFound.Attempted) > 0 {
		return notFound.Attempted[0]
	}
	return ""
}

// resolve maps a name to a Source: registered bodies first, then each loader
// in order. Misses accumulate attempted paths; loader errors other than
// not-found propagate unchanged.
func (e *Engine) resolve(name string) (*Source, error) {
	if name == "" {
		return nil, errors.New("view: template name is required")
	}

	e.mu.RLock()
	body, ok := e.templates[name]
	e.mu.RUnlock()
	if ok {
		return &Source{Path: "registered:" + name, Body: body}, nil
	}

	attempted := make([]string, 0, len(e.loaders))
	for _, loader := range e.loaders {
		src, err := loader.Load(name)
		if err == nil {
			return src, nil
		}
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			attempted = append(attempted, notFound.Attempted...)
			continue
		}
		return nil, err
	}
	return nil, &NotFoundError{Name: name, Attempted: attempted}
}

func loadDefaultsFile(fsys fs.FS, path string) (map[string]map[string]any, error) {
	var raw []byte
	var err error
	if fsys != nil {
		raw, err = fs.ReadFile(fsys, path)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("view: read defaults file %q: %w", path, err)
	}

	out := make(map[string]map[string]any)
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("view: parse defaults file %q: %w", path, err)
	}
	return out, nil
}
