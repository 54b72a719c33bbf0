package domain

import (
	"errors"
	"testing"
)

func TestResolveAssignee_ReporterCannotClaim(t *testing.T) {
	issue := &Issue{ReporterID: 1}
	reporter := Actor{ID: 1, Roles: NewRoleSet(RoleAdmin)}

	if _, err := ResolveAssignee(issue, nil, reporter); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
	if _, err := ResolveAssignee(issue, int64Ptr(5), reporter); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("reporter cannot assign someone else either, got %v", err)
	}
}

func TestResolveAssignee_ClaimDefaultsToActor(t *testing.T) {
	issue := &Issue{ReporterID: 1}
	got, err := ResolveAssignee(issue, nil, Actor{ID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("expected actor id 2, got %d", got)
	}
}

func TestResolveAssignee_ExplicitTarget(t *testing.T) {
	issue := &Issue{ReporterID: 1}
	got, err := ResolveAssignee(issue, int64Ptr(7), Actor{ID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("expected target 7, got %d", got)
	}
}

func TestCheckAssignable(t *testing.T) {
	unassigned := &Issue{ReporterID: 1}
	if err := CheckAssignable(unassigned, 2); err != nil {
		t.Errorf("unassigned issue accepts anyone: %v", err)
	}

	assigned := &Issue{ReporterID: 1, AssigneeID: int64Ptr(2)}
	if err := CheckAssignable(assigned, 2); err != nil {
		t.Errorf("same assignee is a no-op: %v", err)
	}
	if err := CheckAssignable(assigned, 3); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
