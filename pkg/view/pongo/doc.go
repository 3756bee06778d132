// Package pongo adapts pongo2 template files into view bodies, so file-backed
// templates and host-code templates resolve through the same engine. Every
// key of the instance's data context is directly addressable inside the
// template.
package pongo
