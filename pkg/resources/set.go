package resources

import (
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
)

// Set groups the three dashboard resources over one client.
type Set struct {
	Notes   *Resource[domain.Note]
	Reports *Resource[domain.Report]
	Tasks   *Resource[domain.Task]
}

// NewSet wires the notes, reports and tasks resources.
func NewSet(client httpclient.Requester) Set {
	return Set{
		Notes:   New[domain.Note](client, httpclient.ServiceNotes, NotesPath),
		Reports: New[domain.Report](client, httpclient.ServiceReports, ReportsPath),
		Tasks:   New[domain.Task](client, httpclient.ServiceTasks, TasksPath),
	}
}
