package httpclient

import (
	"regexp"
	"strings"
)

// Known service keys.
const (
	ServiceNotes   = "notes"
	ServiceReports = "reports"
	ServiceTasks   = "tasks"
)

var absoluteURLPattern = regexp.MustCompile(`(?i)^(https?://|//)`)

// ServiceDescriptor maps logical service keys to base URLs. It is copied on
// construction and never mutated afterwards.
type ServiceDescriptor struct {
	bases map[string]string
}

// NewServiceDescriptor builds a descriptor for the fixed keys notes, reports and
// tasks. Keys missing from bases map to the empty (relative) base; unknown keys
// are ignored.
func NewServiceDescriptor(bases map[string]string) ServiceDescriptor {
	d := ServiceDescriptor{bases: make(map[string]string, 3)}
	for _, key := range []string{ServiceNotes, ServiceReports, ServiceTasks} {
		d.bases[key] = strings.TrimSpace(bases[key])
	}
	return d
}

// Base returns the configured base for a known key.
func (d ServiceDescriptor) Base(key string) (string, bool) {
	base, ok := d.bases[key]
	return base, ok
}

// Known reports whether key is one of the fixed service keys.
func (d ServiceDescriptor) Known(key string) bool {
	_, ok := d.bases[key]
	return ok
}

// ResolveBase turns a base option into a concrete prefix: a known key maps to its
// configured URL, an absolute URL is used verbatim and anything else is treated
// as a literal relative prefix.
func (d ServiceDescriptor) ResolveBase(base string) string {
	normalized := strings.TrimSpace(base)
	if normalized == "" {
		return ""
	}
	if configured, ok := d.bases[normalized]; ok {
		return configured
	}
	return normalized
}

// IsAbsoluteURL reports whether s starts with http://, https:// or //.
func IsAbsoluteURL(s string) bool {
	return absoluteURLPattern.MatchString(s)
}

// JoinURL joins base and path with exactly one slash. An absolute path wins over
// any base; an empty base leaves path untouched.
func JoinURL(base, path string) string {
	if IsAbsoluteURL(path) {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
