package hooks

import (
	"github.com/aymerick/raymond"
)

// render evaluates a handlebars template against the envelope, exposed both
// as {{data.*}} and {{event.*}}. A template that fails to parse or render
// comes back verbatim: a malformed expression must never block delivery.
func render(tmpl string, envelope any) string {
	if tmpl == "" {
		return tmpl
	}
	out, err := raymond.Render(tmpl, map[string]any{
		"data":  envelope,
		"event": envelope,
	})
	if err != nil {
		return tmpl
	}
	return out
}

// renderDeep renders every string leaf of a nested value in place of itself,
// preserving the surrounding structure. Used for JSON bodies and auth blocks
// where templates may sit at arbitrary depth.
func renderDeep(v any, envelope any) any {
	switch t := v.(type) {
	case string:
		return render(t, envelope)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = renderDeep(val, envelope)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = renderDeep(val, envelope)
		}
		return out
	default:
		return v
	}
}
