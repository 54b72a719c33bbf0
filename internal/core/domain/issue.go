package domain

import (
	"strings"
	"time"
)

// IssueStatus represents the lifecycle state of an issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "OPEN"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusReview     IssueStatus = "REVIEW"
	StatusClosed     IssueStatus = "CLOSED"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusReview, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Severity string

const (
	SeverityS1 Severity = "S1"
	SeverityS2 Severity = "S2"
	SeverityS3 Severity = "S3"
	SeverityS4 Severity = "S4"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityS1, SeverityS2, SeverityS3, SeverityS4:
		return true
	}
	return false
}

type IssueType string

const (
	TypeBug         IssueType = "BUG"
	TypeTask        IssueType = "TASK"
	TypeFeature     IssueType = "FEATURE"
	TypeImprovement IssueType = "IMPROVEMENT"
)

func (t IssueType) Valid() bool {
	switch t {
	case TypeBug, TypeTask, TypeFeature, TypeImprovement:
		return true
	}
	return false
}

// Issue is the core aggregate root. Comments are stored separately and
// cascade with the issue; watchers are a non-owning set of user ids.
type Issue struct {
	ID          int64
	Title       string
	Description string
	Status      IssueStatus
	Priority    Priority
	Severity    Severity
	Type        IssueType
	ReporterID  int64
	AssigneeID  *int64
	WatcherIDs  []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *Issue) HasAssignee() bool {
	return i.AssigneeID != nil
}

// Touch refreshes UpdatedAt; every successful mutation calls it.
func (i *Issue) Touch(now time.Time) {
	i.UpdatedAt = now.UTC()
}

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "must not be blank"}
	}
	return nil
}
