package httpclient

import "testing"

func testServices() ServiceDescriptor {
	return NewServiceDescriptor(map[string]string{
		ServiceNotes:   "http://notes.local/",
		ServiceReports: "http://reports.local",
		ServiceTasks:   "",
	})
}

func TestResolveBase(t *testing.T) {
	d := testServices()
	cases := []struct {
		name string
		base string
		want string
	}{
		{name: "known key", base: "reports", want: "http://reports.local"},
		{name: "known key trimmed", base: "  notes ", want: "http://notes.local/"},
		{name: "known key without override", base: "tasks", want: ""},
		{name: "absolute http", base: "http://other.local", want: "http://other.local"},
		{name: "absolute https upper", base: "HTTPS://other.local", want: "HTTPS://other.local"},
		{name: "protocol relative", base: "//cdn.local/api", want: "//cdn.local/api"},
		{name: "literal relative", base: "/api/v1", want: "/api/v1"},
		{name: "empty", base: "", want: ""},
		{name: "blank", base: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.ResolveBase(tc.base); got != tc.want {
				t.Fatalf("ResolveBase(%q) = %q, want %q", tc.base, got, tc.want)
			}
		})
	}
}

func TestNewServiceDescriptorFixedKeys(t *testing.T) {
	d := NewServiceDescriptor(map[string]string{"billing": "http://billing.local"})
	if d.Known("billing") {
		t.Fatalf("unknown key should not be registered")
	}
	for _, key := range []string{ServiceNotes, ServiceReports, ServiceTasks} {
		if !d.Known(key) {
			t.Fatalf("expected %s to be known", key)
		}
	}
}

func TestDescriptorIsImmutable(t *testing.T) {
	bases := map[string]string{ServiceNotes: "http://a"}
	d := NewServiceDescriptor(bases)
	bases[ServiceNotes] = "http://b"
	if got, _ := d.Base(ServiceNotes); got != "http://a" {
		t.Fatalf("descriptor changed with source map: %q", got)
	}
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"http://x/", "/y", "http://x/y"},
		{"http://x", "y", "http://x/y"},
		{"http://x///", "///y/z", "http://x/y/z"},
		{"", "/notes", "/notes"},
		{"/api", "/notes", "/api/notes"},
		{"http://x", "https://elsewhere/notes", "https://elsewhere/notes"},
		{"http://x", "//elsewhere/notes", "//elsewhere/notes"},
	}
	for _, tc := range cases {
		if got := JoinURL(tc.base, tc.path); got != tc.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
