// Package resources provides typed CRUD access to the notes, reports and tasks
// services on top of the shared request helper.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/pkg/envelope"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
)

// Collection paths. The tasks service is addressed as /tarefas.
const (
	NotesPath   = "/notes"
	ReportsPath = "/reports"
	TasksPath   = "/tarefas"
)

// Resource is a typed view over one collection of one backend service.
type Resource[T any] struct {
	client  httpclient.Requester
	service string
	path    string
}

// New binds a collection path on a service key.
func New[T any](client httpclient.Requester, service, path string) *Resource[T] {
	return &Resource[T]{client: client, service: service, path: path}
}

// Service returns the service key the resource talks to.
func (r *Resource[T]) Service() string { return r.service }

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

// List fetches the whole collection. A nil body yields an empty slice.
func (r *Resource[T]) List(ctx context.Context, token string) ([]T, error) {
	raw, err := r.client.Request(ctx, r.path, httpclient.RequestOptions{
		Base:  r.service,
		Token: token,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.service, err)
	}
	items, err := envelope.DecodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s list: %w", r.service, err)
	}
	return items, nil
}

// Create posts input and returns the stored item. When the service answers
// without a body the input is echoed back.
func (r *Resource[T]) Create(ctx context.Context, token string, input any) (T, error) {
	return r.mutate(ctx, http.MethodPost, r.path, token, input)
}

// Update replaces the item with the given id.
func (r *Resource[T]) Update(ctx context.Context, token, id string, input any) (T, error) {
	p, err := r.itemPath(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.mutate(ctx, http.MethodPut, p, token, input)
}

// Delete removes the item with the given id.
func (r *Resource[T]) Delete(ctx context.Context, token, id string) error {
	p, err := r.itemPath(id)
	if err != nil {
		return err
	}
	if _, err := r.client.Request(ctx, p, httpclient.RequestOptions{
		Base:   r.service,
		Method: http.MethodDelete,
		Token:  token,
	}); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.service, id, err)
	}
	return nil
}

func (r *Resource[T]) mutate(ctx context.Context, method, path, token string, input any) (T, error) {
	var out T
	raw, err := r.client.Request(ctx, path, httpclient.RequestOptions{
		Base:   r.service,
		Method: method,
		Body:   input,
		Token:  token,
	})
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", strings.ToLower(method), r.service, err)
	}
	switch envelope.Normalize(raw).(type) {
	case nil, string:
		// No structured body (204 or plain text): echo the input.
		if err := echo(input, &out); err != nil {
			return out, fmt.Errorf("echo %s input: %w", r.service, err)
		}
		return out, nil
	}
	if err := envelope.Decode(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", r.service, err)
	}
	return out, nil
}

func (r *Resource[T]) itemPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s id is required", domain.ErrInvalid, r.service)
	}
	return strings.TrimRight(r.path, "/") + "/" + url.PathEscape(id), nil
}

func echo(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
