package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a request when neither the client nor the call sets one.
const DefaultTimeout = 60 * time.Second

// RequestOptions controls a single request. The zero value is a GET against the
// relative base with the client's default timeout.
type RequestOptions struct {
	// Base is a service key, an absolute base URL, or empty for relative paths.
	Base    string
	Method  string
	Body    any
	Token   string
	Headers map[string]string
	Timeout time.Duration
}

// Options configures a ServiceClient.
type Options struct {
	Timeout    time.Duration
	Logger     Logger
	HTTPClient *http.Client
}

// ServiceClient issues requests against the configured backend services and
// returns parsed bodies or *APIError.
type ServiceClient struct {
	services ServiceDescriptor
	client   *resty.Client
	timeout  time.Duration
	log      Logger
}

// NewServiceClient creates a client bound to an immutable service descriptor.
func NewServiceClient(services ServiceDescriptor, opts Options) *ServiceClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := ensureLogger(opts.Logger)
	return &ServiceClient{
		services: services,
		client:   newRestyBaseClient(opts.HTTPClient, log),
		timeout:  timeout,
		log:      log,
	}
}

// newRestyBaseClient creates a resty.Client without its own timeout; deadlines
// are carried per request by the context.
func newRestyBaseClient(hc *http.Client, log Logger) *resty.Client {
	var c *resty.Client
	if hc != nil {
		c = resty.NewWithClient(hc)
	} else {
		c = resty.New()
	}
	c.SetLogger(restyLogger{log: log})
	return c
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Services returns the descriptor the client was built with.
func (c *ServiceClient) Services() ServiceDescriptor { return c.services }

// Service issues a request against a logical service. A known key is used as the
// base; any other non-empty value is treated as a literal base and an empty one
// falls back to the notes service.
func (c *ServiceClient) Service(ctx context.Context, service, path string, opts RequestOptions) (any, error) {
	switch {
	case c.services.Known(service):
		opts.Base = service
	case strings.TrimSpace(service) != "":
		opts.Base = service
	default:
		opts.Base = ServiceNotes
	}
	return c.Request(ctx, path, opts)
}

// Request performs a single HTTP call. 2xx responses resolve to the parsed body
// (nil for 204); every failure is an *APIError.
func (c *ServiceClient) Request(ctx context.Context, path string, opts RequestOptions) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	url := JoinURL(c.services.ResolveBase(opts.Base), path)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.client.R().SetContext(reqCtx)
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}
	if err := applyBody(req, opts.Body, opts.Headers); err != nil {
		return nil, &APIError{Message: MessageNetworkFailure, URL: url, cause: err}
	}
	if opts.Token != "" {
		req.SetHeader("Authorization", "Bearer "+opts.Token)
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		timedOut := errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
		apiErr := newTransportError(url, timedOut, err)
		c.log.WarnObj("api request failed", "api_transport_error", map[string]any{
			"method":     method,
			"url":        url,
			"message":    apiErr.Message,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return nil, apiErr
	}

	status := resp.StatusCode()
	c.log.DebugObj("api request completed", "api_request", map[string]any{
		"method":     method,
		"url":        url,
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if status == http.StatusNoContent {
		return nil, nil
	}

	parsed := parseBody(resp.Header().Get("Content-Type"), resp.Body())

	if status < 200 || status > 299 {
		return nil, newStatusError(url, status, parsed)
	}
	return parsed, nil
}

// applyBody attaches the request payload. FormData goes out as multipart; any
// other value is JSON encoded unless it is already raw bytes or a reader.
func applyBody(req *resty.Request, body any, headers map[string]string) error {
	if body == nil {
		return nil
	}

	switch b := body.(type) {
	case *FormData:
		return applyForm(req, b)
	case FormData:
		return applyForm(req, &b)
	}

	if !hasHeader(headers, "Content-Type") {
		req.SetHeader("Content-Type", "application/json")
	}

	switch b := body.(type) {
	case []byte:
		req.SetBody(b)
	case io.Reader:
		req.SetBody(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		req.SetBody(raw)
	}
	return nil
}

func applyForm(req *resty.Request, form *FormData) error {
	if form == nil {
		return nil
	}
	if len(form.Fields) > 0 {
		req.SetMultipartFormData(form.Fields)
	}
	for _, f := range form.Files {
		if f.Reader == nil {
			return fmt.Errorf("form file %q has no reader", f.Field)
		}
		req.SetFileReader(f.Field, f.FileName, f.Reader)
	}
	if len(form.Fields) == 0 && len(form.Files) == 0 {
		req.SetMultipartFormData(map[string]string{})
	}
	return nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// parseBody decodes JSON bodies (nil on malformed JSON) and returns everything
// else as text.
func parseBody(contentType string, body []byte) any {
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		var out any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil
		}
		return out
	}
	return string(body)
}

// restyLogger routes resty's own diagnostics into the structured logger.
type restyLogger struct {
	log Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.log.ErrorObj("resty error", "resty", fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.log.WarnObj("resty warning", "resty", fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.log.DebugObj("resty debug", "resty", fmt.Sprintf(format, v...))
}
