package view

// Source is a resolved template: the location the name resolved to plus the
// executable body.
type Source struct {
	Path string
	Body Body
}

// Loader resolves template names to executable sources, typically backed by
// files. A miss must return a *NotFoundError carrying every candidate path
// the loader attempted; any other error is treated as fatal and propagated
// to the caller unchanged.
type Loader interface {
	Load(name string) (*Source, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(name string) (*Source, error)

// Load implements Loader.
func (f LoaderFunc) Load(name string) (*Source, error) {
	return f(name)
}
