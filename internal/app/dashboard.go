package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-dashboard/internal/auth"
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/samvad-hq/samvad-dashboard/pkg/publishers"
	"github.com/samvad-hq/samvad-dashboard/pkg/resources"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrReauthenticate means the backend or the identity provider rejected the
	// credentials and a new token must be obtained.
	ErrReauthenticate = errors.New("re-authentication required")
	// ErrPermissionDenied means the caller is authenticated but may not create the resource.
	ErrPermissionDenied = errors.New("permission denied")
)

// EventPublisher receives an event after every successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Result is the settled outcome of listing one service.
type Result[T any] struct {
	Items []T    `json:"items" yaml:"items"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Err   error  `json:"-" yaml:"-"`
}

func settle[T any](items []T, err error) Result[T] {
	if err != nil {
		return Result[T]{Items: []T{}, Error: err.Error(), Err: err}
	}
	return Result[T]{Items: items}
}

// Snapshot holds the three lists of a joint fetch. A failed service leaves an
// empty list and its own error; the others are unaffected.
type Snapshot struct {
	Notes     Result[domain.Note]   `json:"notes" yaml:"notes"`
	Reports   Result[domain.Report] `json:"reports" yaml:"reports"`
	Tasks     Result[domain.Task]   `json:"tasks" yaml:"tasks"`
	FetchedAt time.Time             `json:"fetched_at" yaml:"fetched_at"`
}

// Err joins the per-service failures. If any of them is a 401 the result also
// matches ErrReauthenticate.
func (s Snapshot) Err() error {
	errs := []error{s.Notes.Err, s.Reports.Err, s.Tasks.Err}
	joined := errors.Join(errs...)
	if joined == nil {
		return nil
	}
	for _, err := range errs {
		if isUnauthorized(err) {
			return fmt.Errorf("%w: %w", ErrReauthenticate, joined)
		}
	}
	return joined
}

// Dashboard loads and mutates notes, reports and tasks on behalf of one principal.
type Dashboard struct {
	res    resources.Set
	tokens auth.TokenSource
	events EventPublisher
	log    logger.Logger
	closer func() error
}

// NewDashboard assembles a dashboard from already-built collaborators. events may be nil.
func NewDashboard(res resources.Set, tokens auth.TokenSource, events EventPublisher, log logger.Logger) *Dashboard {
	if tokens == nil {
		tokens = auth.Static("")
	}
	return &Dashboard{res: res, tokens: tokens, events: events, log: logger.Ensure(log)}
}

// token obtains the bearer token once per operation.
func (d *Dashboard) token(ctx context.Context) (string, error) {
	tok, err := d.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReauthenticate, err)
	}
	return tok, nil
}

// FetchAll lists every service concurrently and waits for all of them. The
// returned error is Snapshot.Err; the snapshot is usable either way.
func (d *Dashboard) FetchAll(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	tok, err := d.token(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var (
		snap Snapshot
		g    errgroup.Group
	)
	g.Go(func() error {
		items, err := d.res.Notes.List(ctx, tok)
		domain.SortNotes(items)
		snap.Notes = settle(items, err)
		return nil
	})
	g.Go(func() error {
		items, err := d.res.Reports.List(ctx, tok)
		snap.Reports = settle(items, err)
		return nil
	})
	g.Go(func() error {
		items, err := d.res.Tasks.List(ctx, tok)
		domain.SortTasks(items)
		snap.Tasks = settle(items, err)
		return nil
	})
	_ = g.Wait()
	snap.FetchedAt = time.Now().UTC()

	fields := map[string]any{
		"notes":      len(snap.Notes.Items),
		"reports":    len(snap.Reports.Items),
		"tasks":      len(snap.Tasks.Items),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	err = snap.Err()
	if errors.Is(err, ErrReauthenticate) {
		d.dropToken()
	}
	if err != nil {
		fields["error"] = err.Error()
		d.log.WarnObj("dashboard fetch partially failed", "dashboard_fetch", fields)
	} else {
		d.log.InfoObj("dashboard fetch completed", "dashboard_fetch", fields)
	}
	return snap, err
}

// Close releases the token cache and publishers when the dashboard owns them.
func (d *Dashboard) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer()
}

// publish emits a mutation event. Delivery failures are logged and never
// surface to the caller.
func (d *Dashboard) publish(ctx context.Context, service, action, id string, payload any) {
	if d.events == nil {
		return
	}
	evt := publishers.NewEvent(service, action, id, payload)
	delivered, err := d.events.Publish(ctx, evt)
	if err != nil {
		d.log.WarnObj("mutation event delivery failed", "publish_error", map[string]any{
			"event_id":  evt.ID,
			"service":   service,
			"action":    action,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// dropToken clears a cached token after the backend rejected it, so the next
// operation fetches a new one.
func (d *Dashboard) dropToken() {
	inv, ok := d.tokens.(auth.Invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(); err != nil {
		d.log.WarnObj("token invalidation failed", "token_cache", map[string]any{"error": err.Error()})
	}
}

// classify maps backend failures onto the dashboard's error taxonomy.
func (d *Dashboard) classify(op, service string, err error, creating bool) error {
	switch {
	case isUnauthorized(err):
		d.dropToken()
		return fmt.Errorf("%s %s: %w: %w", op, service, ErrReauthenticate, err)
	case creating && httpclient.StatusCode(err) == 403:
		return fmt.Errorf("%s %s: %w: %w", op, service, ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%s %s: %w", op, service, err)
	}
}

func isUnauthorized(err error) bool {
	apiErr, ok := httpclient.AsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

type validator interface {
	Validate() error
}

func create[T any](ctx context.Context, d *Dashboard, res *resources.Resource[T], in validator, idOf func(T) string) (T, error) {
	var zero T
	if err := in.Validate(); err != nil {
		return zero, err
	}
	tok, err := d.token(ctx)
	if err != nil {
		return zero, err
	}
	out, err := res.Create(ctx, tok, in)
	if err != nil {
		return zero, d.classify("create", res.Service(), err, true)
	}
	d.publish(ctx, res.Service(), publishers.ActionCreated, idOf(out), out)
	return out, nil
}

func update[T any](ctx context.Context, d *Dashboard, res *resources.Resource[T], id string, in validator) (T, error) {
	var zero T
	if err := in.Validate(); err != nil {
		return zero, err
	}
	tok, err := d.token(ctx)
	if err != nil {
		return zero, err
	}
	out, err := res.Update(ctx, tok, id, in)
	if err != nil {
		return zero, d.classify("update", res.Service(), err, false)
	}
	d.publish(ctx, res.Service(), publishers.ActionUpdated, id, out)
	return out, nil
}

func remove[T any](ctx context.Context, d *Dashboard, res *resources.Resource[T], id string) error {
	tok, err := d.token(ctx)
	if err != nil {
		return err
	}
	if err := res.Delete(ctx, tok, id); err != nil {
		return d.classify("delete", res.Service(), err, false)
	}
	d.publish(ctx, res.Service(), publishers.ActionDeleted, id, nil)
	return nil
}

func list[T any](ctx context.Context, d *Dashboard, res *resources.Resource[T], sortFn func([]T)) ([]T, error) {
	tok, err := d.token(ctx)
	if err != nil {
		return nil, err
	}
	items, err := res.List(ctx, tok)
	if err != nil {
		return nil, d.classify("list", res.Service(), err, false)
	}
	if sortFn != nil {
		sortFn(items)
	}
	return items, nil
}

func noteID(n domain.Note) string     { return n.ID }
func reportID(r domain.Report) string { return r.ID }
func taskID(t domain.Task) string     { return t.ID }

// ListNotes returns notes newest first.
func (d *Dashboard) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return list(ctx, d, d.res.Notes, domain.SortNotes)
}

// ListReports returns reports in service order.
func (d *Dashboard) ListReports(ctx context.Context) ([]domain.Report, error) {
	return list(ctx, d, d.res.Reports, nil)
}

// ListTasks returns tasks ordered by title.
func (d *Dashboard) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return list(ctx, d, d.res.Tasks, domain.SortTasks)
}

// CreateNote validates and creates a note.
func (d *Dashboard) CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error) {
	return create(ctx, d, d.res.Notes, in, noteID)
}

// UpdateNote replaces the note with the given id.
func (d *Dashboard) UpdateNote(ctx context.Context, id string, in domain.NoteInput) (domain.Note, error) {
	return update(ctx, d, d.res.Notes, id, in)
}

// DeleteNote removes a note.
func (d *Dashboard) DeleteNote(ctx context.Context, id string) error {
	return remove(ctx, d, d.res.Notes, id)
}

// CreateReport validates and creates a report.
func (d *Dashboard) CreateReport(ctx context.Context, in domain.ReportInput) (domain.Report, error) {
	return create(ctx, d, d.res.Reports, in, reportID)
}

// UpdateReport replaces the report with the given id.
func (d *Dashboard) UpdateReport(ctx context.Context, id string, in domain.ReportInput) (domain.Report, error) {
	return update(ctx, d, d.res.Reports, id, in)
}

// DeleteReport removes a report.
func (d *Dashboard) DeleteReport(ctx context.Context, id string) error {
	return remove(ctx, d, d.res.Reports, id)
}

// CreateTask validates and creates a task.
func (d *Dashboard) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	return create(ctx, d, d.res.Tasks, in, taskID)
}

// UpdateTask replaces the task with the given id.
func (d *Dashboard) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	return update(ctx, d, d.res.Tasks, id, in)
}

// DeleteTask removes a task.
func (d *Dashboard) DeleteTask(ctx context.Context, id string) error {
	return remove(ctx, d, d.res.Tasks, id)
}
