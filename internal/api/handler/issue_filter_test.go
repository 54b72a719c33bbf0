package handler

import (
	"testing"
	"time"

	"github.com/jiralite/tracker/internal/core/domain"
)

func TestParseIssueFilter(t *testing.T) {
	var c domain.IssueCriteria
	raw := `status = "IN_PROGRESS" AND title : "crash" AND reporter_id = 4 AND ` +
		`created_at >= timestamp("2026-01-01T00:00:00Z") AND created_at <= timestamp("2026-01-31T23:59:59Z")`
	if err := parseIssueFilter(raw, &c); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Status == nil || *c.Status != domain.StatusInProgress {
		t.Errorf("status: %v", c.Status)
	}
	if c.Title == nil || *c.Title != "crash" {
		t.Errorf("title: %v", c.Title)
	}
	if c.ReporterID == nil || *c.ReporterID != 4 {
		t.Errorf("reporter_id: %v", c.ReporterID)
	}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if c.CreatedFrom == nil || !c.CreatedFrom.Equal(from) || c.CreatedTo == nil {
		t.Errorf("created range: %v %v", c.CreatedFrom, c.CreatedTo)
	}
	if c.Priority != nil || c.AssigneeID != nil {
		t.Error("unreferenced fields must stay unconstrained")
	}
}

func TestParseIssueFilter_Empty(t *testing.T) {
	var c domain.IssueCriteria
	if err := parseIssueFilter("   ", &c); err != nil {
		t.Fatalf("blank filter: %v", err)
	}
	if c != (domain.IssueCriteria{}) {
		t.Errorf("blank filter must leave criteria empty: %+v", c)
	}
}

func TestParseIssueFilter_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"disjunction":     `status = "OPEN" OR status = "CLOSED"`,
		"unknown field":   `owner = "alice"`,
		"unknown status":  `status = "DONE"`,
		"has on enum":     `status : "OPEN"`,
		"range on title":  `title >= "a"`,
		"equality on ts":  `created_at = timestamp("2026-01-01T00:00:00Z")`,
		"twice":           `priority = "LOW" AND priority = "HIGH"`,
		"syntax":          `status = `,
		"negation":        `NOT status = "OPEN"`,
		"string for date": `created_at >= "2026-01-01"`,
	} {
		var c domain.IssueCriteria
		if err := parseIssueFilter(raw, &c); err == nil {
			t.Errorf("%s: expected error for %q", name, raw)
		}
	}
}
