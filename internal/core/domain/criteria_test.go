package domain

import (
	"testing"
	"time"
)

func sampleIssues() []*Issue {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*Issue{
		{ID: 1, Title: "Login BUG on Safari", Status: StatusOpen, Priority: PriorityHigh, Severity: SeverityS2, Type: TypeBug, ReporterID: 10, CreatedAt: base},
		{ID: 2, Title: "Add dark mode", Status: StatusInProgress, Priority: PriorityLow, Severity: SeverityS4, Type: TypeFeature, ReporterID: 11, AssigneeID: int64Ptr(20), CreatedAt: base.Add(24 * time.Hour)},
		{ID: 3, Title: "debug logging", Status: StatusClosed, Priority: PriorityMedium, Severity: SeverityS3, Type: TypeTask, ReporterID: 10, AssigneeID: int64Ptr(21), CreatedAt: base.Add(48 * time.Hour)},
	}
}

func matchIDs(c IssueCriteria) []int64 {
	pred := c.Compile()
	var ids []int64
	for _, i := range sampleIssues() {
		if pred(i) {
			ids = append(ids, i.ID)
		}
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompile(t *testing.T) {
	bug := "bug"
	open := StatusOpen
	low := PriorityLow
	s3 := SeverityS3
	feature := TypeFeature
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := base.Add(24 * time.Hour)

	cases := []struct {
		name     string
		criteria IssueCriteria
		want     []int64
	}{
		{"empty matches all", IssueCriteria{}, []int64{1, 2, 3}},
		{"id", IssueCriteria{ID: int64Ptr(2)}, []int64{2}},
		{"title case-insensitive substring", IssueCriteria{Title: &bug}, []int64{1, 3}},
		{"status", IssueCriteria{Status: &open}, []int64{1}},
		{"priority", IssueCriteria{Priority: &low}, []int64{2}},
		{"severity", IssueCriteria{Severity: &s3}, []int64{3}},
		{"type", IssueCriteria{Type: &feature}, []int64{2}},
		{"assignee", IssueCriteria{AssigneeID: int64Ptr(21)}, []int64{3}},
		{"reporter", IssueCriteria{ReporterID: int64Ptr(10)}, []int64{1, 3}},
		{"from inclusive", IssueCriteria{CreatedFrom: &second}, []int64{2, 3}},
		{"to inclusive", IssueCriteria{CreatedTo: &second}, []int64{1, 2}},
		{"window", IssueCriteria{CreatedFrom: &second, CreatedTo: &second}, []int64{2}},
		{"conjunction", IssueCriteria{Title: &bug, ReporterID: int64Ptr(10), Status: &open}, []int64{1}},
		{"no match", IssueCriteria{Title: &bug, Type: &feature}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchIDs(tc.criteria); !equalIDs(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIssueCriteria_IsEmpty(t *testing.T) {
	if !(IssueCriteria{}).IsEmpty() {
		t.Error("zero criteria should be empty")
	}
	if (IssueCriteria{ReporterID: int64Ptr(1)}).IsEmpty() {
		t.Error("criteria with reporter should not be empty")
	}
}
