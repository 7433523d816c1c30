package httpclient

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDetailLen = 512

var detailKeys = []string{"message", "error", "detail", "mensagem", "erro"}

// Detail extracts a short human-readable explanation from the parsed body: a
// message-like field of a JSON object, the title or first heading of an HTML
// error page, or a trimmed text snippet. It falls back to Message.
func (e *APIError) Detail() string {
	if e == nil {
		return ""
	}
	if d := bodyDetail(e.Body); d != "" {
		return d
	}
	return e.Message
}

func bodyDetail(body any) string {
	switch v := body.(type) {
	case nil:
		return ""
	case map[string]any:
		for _, key := range detailKeys {
			if d := bodyDetail(v[key]); d != "" {
				return d
			}
		}
		return ""
	case string:
		return textDetail(v)
	case []any:
		return ""
	default:
		return truncate(fmt.Sprint(v))
	}
}

func textDetail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if looksLikeHTML(s) {
		if d := htmlDetail(s); d != "" {
			return d
		}
	}
	return truncate(s)
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(s)
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}

func htmlDetail(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	return firstNonEmpty(
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
		doc.Find("body").First().Text(),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return truncate(v)
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxDetailLen {
		return s[:maxDetailLen] + "..."
	}
	return s
}
