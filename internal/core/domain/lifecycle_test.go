package domain

import "testing"

var allStatuses = []IssueStatus{StatusOpen, StatusInProgress, StatusReview, StatusClosed}

func TestCanTransition_AssigneeAnyMove(t *testing.T) {
	rel := Relationship{IsAssignee: true}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if !CanTransition(rel, from, to) {
				t.Errorf("assignee should move %s -> %s", from, to)
			}
		}
	}
}

func TestCanTransition_ReporterOnlyReopens(t *testing.T) {
	rel := Relationship{IsReporter: true}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := from == StatusClosed && to == StatusOpen
			if got := CanTransition(rel, from, to); got != want {
				t.Errorf("reporter %s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestCanTransition_ReporterAndAssignee(t *testing.T) {
	rel := Relationship{IsReporter: true, IsAssignee: true}
	if !CanTransition(rel, StatusOpen, StatusClosed) {
		t.Error("assignee rights apply even when also reporter")
	}
}

func TestCanTransition_AdminAndStrangerDenied(t *testing.T) {
	for _, rel := range []Relationship{{}, {IsAdmin: true}} {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				if CanTransition(rel, from, to) {
					t.Errorf("%+v must not move %s -> %s", rel, from, to)
				}
			}
		}
	}
}

func TestIssueStatus_Valid(t *testing.T) {
	for _, s := range allStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if IssueStatus("DONE").Valid() {
		t.Error("DONE is not a status")
	}
}
