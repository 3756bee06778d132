package view

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Escape HTML-escapes the string form of value, escaping quotes as well as
// angle brackets and ampersands. A nil value reads as the empty string. No
// double-escape detection is performed beyond what the escape routine itself
// guarantees.
func Escape(value any) string {
	return html.EscapeString(stringify(value))
}

// Escape optionally runs value through an Apply pipeline first, then
// HTML-escapes the result.
func (t *Template) Escape(value any, pipeline ...string) (string, error) {
	if len(pipeline) > 0 && strings.TrimSpace(pipeline[0]) != "" {
		out, err := t.Apply(value, pipeline[0])
		if err != nil {
			return "", err
		}
		value = out
	}
	return Escape(value), nil
}

// Sanitize strips unsafe markup from raw HTML using a process-wide cached
// user-generated-content policy. It is registered on every engine as the
// "sanitize" pipe function.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupSanitizer().Sanitize(trimmed))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.UGCPolicy()
	})
	return markupPolicy
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func builtinPipeFuncs() map[string]PipeFunc {
	return map[string]PipeFunc{
		"upper": func(value any) (any, error) {
			return strings.ToUpper(stringify(value)), nil
		},
		"lower": func(value any) (any, error) {
			return strings.ToLower(stringify(value)), nil
		},
		"trim": func(value any) (any, error) {
			return strings.TrimSpace(stringify(value)), nil
		},
		"sanitize": func(value any) (any, error) {
			return Sanitize(stringify(value)), nil
		},
	}
}
