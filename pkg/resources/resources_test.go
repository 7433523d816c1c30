package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var calls []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls = append(calls, rec)
		if response != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newSet(srvURL string) Set {
	client := httpclient.NewServiceClient(httpclient.NewServiceDescriptor(map[string]string{
		httpclient.ServiceNotes:   srvURL + "/n",
		httpclient.ServiceReports: srvURL + "/r",
		httpclient.ServiceTasks:   srvURL + "/t",
	}), httpclient.Options{Timeout: time.Second})
	return NewSet(client)
}

func TestListNotesUnwrapsEnvelope(t *testing.T) {
	srv, calls := newBackend(t, http.StatusOK, `{"data":[{"id":1,"title":"a","content":"b","createdAt":"2024-05-01T12:00:00Z"}]}`)
	set := newSet(srv.URL)

	notes, err := set.Notes.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "1", notes[0].ID)
	assert.Equal(t, "a", notes[0].Title)
	assert.True(t, notes[0].CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	require.Len(t, *calls, 1)
	assert.Equal(t, "/n/notes", (*calls)[0].path)
	assert.Equal(t, "Bearer tok", (*calls)[0].auth)
}

func TestListTasksUsesTarefasPath(t *testing.T) {
	srv, calls := newBackend(t, http.StatusOK, `[{"id":"x","titulo":"t","descricao":"d","concluida":true}]`)
	set := newSet(srv.URL)

	tasks, err := set.Tasks.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{{ID: "x", Title: "t", Description: "d", Done: true}}, tasks)
	assert.Equal(t, "/t/tarefas", (*calls)[0].path)
	assert.Empty(t, (*calls)[0].auth)
}

func TestListNoContentIsEmpty(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNoContent, "")
	set := newSet(srv.URL)

	reports, err := set.Reports.List(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestCreateNoteDecodesResponse(t *testing.T) {
	srv, calls := newBackend(t, http.StatusCreated, `{"id":1,"title":"a"}`)
	set := newSet(srv.URL)

	note, err := set.Notes.Create(context.Background(), "T", domain.NoteInput{Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, domain.Note{ID: "1", Title: "a"}, note)

	rec := (*calls)[0]
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/n/notes", rec.path)
	assert.Equal(t, "a", rec.body["title"])
}

func TestUpdateReportEchoesInputOnNoContent(t *testing.T) {
	srv, calls := newBackend(t, http.StatusNoContent, "")
	set := newSet(srv.URL)

	report, err := set.Reports.Update(context.Background(), "T", "r 1", domain.ReportInput{Title: "relatorio anual", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "relatorio anual", report.Title)
	assert.Equal(t, "c", report.Content)

	rec := (*calls)[0]
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/r/reports/r 1", rec.path)
}

func TestDeleteTaskPropagatesAPIError(t *testing.T) {
	srv, _ := newBackend(t, http.StatusForbidden, `{"message":"sem permissão"}`)
	set := newSet(srv.URL)

	err := set.Tasks.Delete(context.Background(), "T", "9")
	require.Error(t, err)
	apiErr, ok := httpclient.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsForbidden())
	assert.Equal(t, "sem permissão", apiErr.Detail())
}

func TestItemOperationsRequireID(t *testing.T) {
	set := NewSet(nil)
	_, err := set.Notes.Update(context.Background(), "T", " ", domain.NoteInput{})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.ErrorIs(t, set.Notes.Delete(context.Background(), "T", ""), domain.ErrInvalid)
}
