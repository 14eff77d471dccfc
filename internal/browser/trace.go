// internal/browser/trace.go
package browser

// DefaultTraceCategories is the Chrome trace-category set enabled when a run
// requests tracing. The leading "-*" disables everything not explicitly
// listed, keeping trace files bounded.
var DefaultTraceCategories = []string{
	"-*",
	"devtools.timeline",
	"disabled-by-default-devtools.timeline",
	"disabled-by-default-devtools.timeline.frame",
	"disabled-by-default-devtools.timeline.stack",
	"toplevel",
	"blink.console",
	"blink.user_timing",
	"benchmark",
	"loading",
	"latencyInfo",
	"v8.execute",
}

// TraceCategories merges the default category set with any extra categories
// from configuration, preserving order and dropping duplicates.
func TraceCategories(extra []string) []string {
	seen := make(map[string]struct{}, len(DefaultTraceCategories)+len(extra))
	out := make([]string, 0, len(DefaultTraceCategories)+len(extra))
	for _, c := range DefaultTraceCategories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range extra {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
