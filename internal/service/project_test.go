package service

import (
	"testing"
	"time"

	"taskboard/internal/domain"

	"github.com/google/uuid"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"My Project", "my-project"},
		{"  Sprint #42 !!", "sprint-42"},
		{"Проект Альфа", "проект-альфа"},
		{"---", ""},
		{"already-slugged", "already-slugged"},
	}

	for _, tc := range cases {
		if got := slugify(tc.name); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMatchesFiltersSearch(t *testing.T) {
	task := &domain.Task{Title: "Fix login redirect"}

	if !matchesFilters(task, BoardFilters{Search: "LOGIN"}) {
		t.Fatal("case-insensitive search should match")
	}
	if matchesFilters(task, BoardFilters{Search: "payment"}) {
		t.Fatal("unrelated search should not match")
	}
}

func TestMatchesFiltersPriorityAndOwner(t *testing.T) {
	owner := uuid.New()
	task := &domain.Task{Title: "t", Priority: domain.PriorityHigh, CreatedBy: owner}

	if !matchesFilters(task, BoardFilters{Priority: domain.PriorityHigh}) {
		t.Fatal("matching priority rejected")
	}
	if matchesFilters(task, BoardFilters{Priority: domain.PriorityLow}) {
		t.Fatal("different priority accepted")
	}
	if !matchesFilters(task, BoardFilters{MyTasks: true, UserID: owner}) {
		t.Fatal("own task rejected by my-tasks filter")
	}
	if matchesFilters(task, BoardFilters{MyTasks: true, UserID: uuid.New()}) {
		t.Fatal("foreign task accepted by my-tasks filter")
	}
}

func TestMatchesFiltersLabel(t *testing.T) {
	labelID := uuid.New()
	task := &domain.Task{Title: "t", Labels: []*domain.Label{{ID: labelID}}}

	if !matchesFilters(task, BoardFilters{LabelID: &labelID}) {
		t.Fatal("task with label rejected")
	}
	other := uuid.New()
	if matchesFilters(task, BoardFilters{LabelID: &other}) {
		t.Fatal("task without label accepted")
	}
}

func TestMatchesFiltersDue(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	today := time.Now()
	nextMonth := time.Now().AddDate(0, 1, 0)

	noDue := &domain.Task{Title: "t"}
	overdue := &domain.Task{Title: "t", DueDate: &yesterday}
	dueToday := &domain.Task{Title: "t", DueDate: &today}
	farAway := &domain.Task{Title: "t", DueDate: &nextMonth}

	if !matchesFilters(noDue, BoardFilters{Due: "none"}) || matchesFilters(overdue, BoardFilters{Due: "none"}) {
		t.Fatal("due=none filter broken")
	}
	if !matchesFilters(overdue, BoardFilters{Due: "overdue"}) || matchesFilters(dueToday, BoardFilters{Due: "overdue"}) {
		t.Fatal("due=overdue filter broken")
	}
	if !matchesFilters(dueToday, BoardFilters{Due: "today"}) || matchesFilters(farAway, BoardFilters{Due: "today"}) {
		t.Fatal("due=today filter broken")
	}
	if !matchesFilters(dueToday, BoardFilters{Due: "week"}) || matchesFilters(farAway, BoardFilters{Due: "week"}) {
		t.Fatal("due=week filter broken")
	}
}
