// Package view implements a template rendering and composition engine. A
// template body is ordinary Go code (a Body func) that writes output through
// a shared capture stack, accumulates named sections, and can ask to be
// wrapped by a chain of layout templates. Layouts are rendered through the
// same pipeline, so composition nests to arbitrary depth: each layer sees the
// sections produced inside it plus a reserved "content" section holding the
// output of the layer below.
//
// The Engine owns template resolution (registered bodies first, then any
// configured Loaders), the extension registry used for dynamic helper
// dispatch, per-template default data, and the capture stack. Registries are
// safe for concurrent registration; a render itself is single-threaded and a
// Template instance must not be shared across goroutines.
package view
