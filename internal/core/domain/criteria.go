package domain

import (
	"strings"
	"time"
)

// IssueCriteria is a sparse set of search filters. A nil field places no constraint.
type IssueCriteria struct {
	ID          *int64
	Title       *string // case-insensitive substring
	Status      *IssueStatus
	Priority    *Priority
	Severity    *Severity
	Type        *IssueType
	AssigneeID  *int64
	ReporterID  *int64
	CreatedFrom *time.Time // inclusive
	CreatedTo   *time.Time // inclusive
}

// IsEmpty reports whether no filter is set.
func (c IssueCriteria) IsEmpty() bool {
	return c.ID == nil && c.Title == nil && c.Status == nil && c.Priority == nil &&
		c.Severity == nil && c.Type == nil && c.AssigneeID == nil && c.ReporterID == nil &&
		c.CreatedFrom == nil && c.CreatedTo == nil
}

// FoldTitle is the case folding used for title matching.
func FoldTitle(title string) string {
	return strings.ToLower(title)
}

// Predicate tests a single issue against compiled criteria.
type Predicate func(*Issue) bool

// Compile turns the criteria into the conjunction of its present filters.
// Empty criteria match every issue.
func (c IssueCriteria) Compile() Predicate {
	var preds []Predicate

	if c.ID != nil {
		id := *c.ID
		preds = append(preds, func(i *Issue) bool { return i.ID == id })
	}
	if c.Title != nil {
		needle := FoldTitle(*c.Title)
		preds = append(preds, func(i *Issue) bool {
			return strings.Contains(FoldTitle(i.Title), needle)
		})
	}
	if c.Status != nil {
		v := *c.Status
		preds = append(preds, func(i *Issue) bool { return i.Status == v })
	}
	if c.Priority != nil {
		v := *c.Priority
		preds = append(preds, func(i *Issue) bool { return i.Priority == v })
	}
	if c.Severity != nil {
		v := *c.Severity
		preds = append(preds, func(i *Issue) bool { return i.Severity == v })
	}
	if c.Type != nil {
		v := *c.Type
		preds = append(preds, func(i *Issue) bool { return i.Type == v })
	}
	if c.AssigneeID != nil {
		v := *c.AssigneeID
		preds = append(preds, func(i *Issue) bool { return i.AssigneeID != nil && *i.AssigneeID == v })
	}
	if c.ReporterID != nil {
		v := *c.ReporterID
		preds = append(preds, func(i *Issue) bool { return i.ReporterID == v })
	}
	if c.CreatedFrom != nil {
		from := *c.CreatedFrom
		preds = append(preds, func(i *Issue) bool { return !i.CreatedAt.Before(from) })
	}
	if c.CreatedTo != nil {
		to := *c.CreatedTo
		preds = append(preds, func(i *Issue) bool { return !i.CreatedAt.After(to) })
	}

	return func(i *Issue) bool {
		for _, p := range preds {
			if !p(i) {
				return false
			}
		}
		return true
	}
}
