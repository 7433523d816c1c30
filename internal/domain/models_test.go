package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNoteInputValidate(t *testing.T) {
	if err := (NoteInput{Title: "a"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := (NoteInput{Title: "  ", Content: strings.Repeat("c", 1001)}).Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "title is required") || !strings.Contains(err.Error(), "content must have at most 1000") {
		t.Fatalf("missing messages in %q", err)
	}
}

func TestReportInputValidate(t *testing.T) {
	if err := (ReportInput{Title: "relatório mensal", Content: "ok"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Ten runes, more than ten bytes.
	if err := (ReportInput{Title: "ççççççççç ", Content: "x"}).Validate(); err != nil {
		t.Fatalf("rune counting failed: %v", err)
	}
	err := (ReportInput{Title: "curto", Content: ""}).Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "at least 10") || !strings.Contains(err.Error(), "conteudo is required") {
		t.Fatalf("missing messages in %q", err)
	}
}

func TestTaskInputValidate(t *testing.T) {
	if err := (TaskInput{Description: "comprar pão"}).Validate(); err != nil {
		t.Fatalf("title should be optional: %v", err)
	}
	if err := (TaskInput{Title: strings.Repeat("t", 201), Description: "x"}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for long title, got %v", err)
	}
	if err := (TaskInput{Title: "t"}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for missing descricao, got %v", err)
	}
}

func TestSortNotesNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notes := []Note{
		{ID: "old", CreatedAt: base},
		{ID: "none"},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
	}
	SortNotes(notes)
	if notes[0].ID != "new" || notes[1].ID != "old" || notes[2].ID != "none" {
		t.Fatalf("unexpected order %v", notes)
	}
}

func TestSortTasksByTitle(t *testing.T) {
	tasks := []Task{{ID: "1", Title: "comprar"}, {ID: "2", Title: ""}, {ID: "3", Title: "Arrumar"}}
	SortTasks(tasks)
	if tasks[0].ID != "2" || tasks[1].ID != "3" || tasks[2].ID != "1" {
		t.Fatalf("unexpected order %v", tasks)
	}
}
