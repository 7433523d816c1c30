package domain

// Domain contains core models and interfaces.

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalid marks input rejected before any request is made.
var ErrInvalid = errors.New("invalid input")

// Note is a free-form note served by the notes service.
type Note struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Report is served by the reports service; its wire fields are Portuguese.
type Report struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"titulo" yaml:"titulo"`
	Content string `json:"conteudo" yaml:"conteudo"`
}

// ReportInput is the payload for creating or updating a report.
type ReportInput struct {
	Title   string `json:"titulo"`
	Content string `json:"conteudo"`
}

// Task is served by the tasks service at /tarefas.
type Task struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"titulo" yaml:"titulo"`
	Description string `json:"descricao" yaml:"descricao"`
	Done        bool   `json:"concluida" yaml:"concluida"`
}

// TaskInput is the payload for creating or updating a task. Done is omitted on
// create, matching the create form which has no completion toggle. A nil Done on
// update leaves the field out of the body.
type TaskInput struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Done        *bool  `json:"concluida,omitempty"`
}

const (
	noteTitleMax     = 1000
	noteContentMax   = 1000
	reportTitleMin   = 10
	reportTitleMax   = 500
	reportContentMax = 500
	taskTitleMax     = 200
	taskDescMax      = 200
)

// Validate checks the note limits.
func (in NoteInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	errs = appendMax(errs, "title", in.Title, noteTitleMax)
	errs = appendMax(errs, "content", in.Content, noteContentMax)
	return joinInvalid(errs)
}

// Validate checks the report limits.
func (in ReportInput) Validate() error {
	var errs []error
	if n := utf8.RuneCountInString(in.Title); n < reportTitleMin {
		errs = append(errs, fmt.Errorf("titulo must have at least %d characters", reportTitleMin))
	}
	errs = appendMax(errs, "titulo", in.Title, reportTitleMax)
	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, errors.New("conteudo is required"))
	}
	errs = appendMax(errs, "conteudo", in.Content, reportContentMax)
	return joinInvalid(errs)
}

// Validate checks the task limits.
func (in TaskInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, errors.New("descricao is required"))
	}
	errs = appendMax(errs, "titulo", in.Title, taskTitleMax)
	errs = appendMax(errs, "descricao", in.Description, taskDescMax)
	return joinInvalid(errs)
}

func appendMax(errs []error, field, value string, max int) []error {
	if utf8.RuneCountInString(value) > max {
		return append(errs, fmt.Errorf("%s must have at most %d characters", field, max))
	}
	return errs
}

func joinInvalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SortNotes orders notes newest first; notes without a timestamp go last.
func SortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}

// SortTasks orders tasks by title, case-insensitively.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
	})
}
