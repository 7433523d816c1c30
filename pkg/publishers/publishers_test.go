package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/1/q
      region: us-east-1
  - id: events
    type: pubsub
    pubsub:
      project_id: p
      topic: t
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "queue" || enabled[1].ID != "events" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}
}

func TestLoadRegistryMissingOrEmpty(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil || len(reg.All()) != 0 {
		t.Fatalf("blank path: %v %#v", err, reg)
	}
	reg, err = LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || len(reg.Enabled()) != 0 {
		t.Fatalf("missing file: %v %#v", err, reg)
	}
}

func TestParseRegistryJSONDefaults(t *testing.T) {
	reg, err := ParseRegistry([]byte(`{"publishers":[{"id":" hook ","type":"HTTP","http":{"url":"https://x","headers":{"X-A":" ","X-B":"1"}}}]}`), ".json")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	cfg := reg.All()[0]
	if cfg.ID != "hook" || cfg.Type != TypeHTTP {
		t.Fatalf("unexpected sanitized config %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("expected defaults, got %#v", cfg.HTTP)
	}
	if len(cfg.HTTP.Headers) != 1 || cfg.HTTP.Headers["X-B"] != "1" {
		t.Fatalf("expected blank headers dropped, got %#v", cfg.HTTP.Headers)
	}
}

func TestParseRegistryRejectsDuplicates(t *testing.T) {
	raw := `
publishers:
  - {id: a, type: http, http: {url: "https://x"}}
  - {id: a, type: http, http: {url: "https://y"}}
`
	if _, err := ParseRegistry([]byte(raw), ".yml"); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []PublisherConfig{
		{Type: TypeHTTP},
		{ID: "x"},
		{ID: "h", Type: TypeHTTP},
		{ID: "q", Type: TypeSQS, SQS: &SQSConfig{QueueURL: "u"}},
		{ID: "s", Type: TypeSNS, SNS: &SNSConfig{Region: "r"}},
		{ID: "p", Type: TypePubSub, PubSub: &PubSubConfig{ProjectID: "p"}},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestShippedPublishersFileParses(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "publishers.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 4 {
		t.Fatalf("expected 4 publishers, got %d", len(reg.All()))
	}
	if len(reg.Enabled()) != 0 {
		t.Fatalf("shipped publishers should be disabled by default")
	}
}
